package model

import "github.com/shopspring/decimal"

// CategorySummary is one row of the per-category breakdown.
type CategorySummary struct {
	ID         string
	Name       string
	Color      string
	Amount     decimal.Decimal
	Count      int
	Percentage float64 // share of the period total, 0-100
}

// Summary is the dashboard aggregate for one time window.
type Summary struct {
	Total          decimal.Decimal
	ByCategory     []CategorySummary
	RecentExpenses []Expense
}

// TopCategory returns the largest category by amount, or false when the
// period has no spending.
func (s Summary) TopCategory() (CategorySummary, bool) {
	var top CategorySummary
	found := false
	for _, c := range s.ByCategory {
		if c.Count == 0 {
			continue
		}
		if !found || c.Amount.GreaterThan(top.Amount) {
			top = c
			found = true
		}
	}
	return top, found
}
