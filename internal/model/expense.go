package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single expense record. The server is the source of truth;
// client copies live only inside cache entries and are replaced wholesale,
// never patched in place.
type Expense struct {
	ID         string
	UserID     string
	Title      string
	Amount     decimal.Decimal
	Date       time.Time // date-only granularity
	CategoryID string
	// Denormalized join, present when the server includes it.
	CategoryName  string
	CategoryColor string
	Notes         string
	ReceiptURL    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExpenseInput carries the user-editable fields for create and update.
type ExpenseInput struct {
	Title      string
	Amount     decimal.Decimal
	Date       time.Time
	CategoryID string
	Notes      string
	ReceiptURL string
}

// InputFromExpense pre-fills an input from an existing record for editing.
func InputFromExpense(e Expense) ExpenseInput {
	return ExpenseInput{
		Title:      e.Title,
		Amount:     e.Amount,
		Date:       e.Date,
		CategoryID: e.CategoryID,
		Notes:      e.Notes,
		ReceiptURL: e.ReceiptURL,
	}
}

// DateLayout is the wire format for expense dates.
const DateLayout = "2006-01-02"

// ParseDate parses a date accepting both date-only and RFC3339 forms.
// The API emits plain dates for expense rows but full timestamps for
// created/updated fields.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Some backends emit timestamps without a zone.
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("model: unrecognized date " + quote(s))
}

func quote(s string) string {
	if len(s) > 32 {
		s = s[:32]
	}
	return "\"" + s + "\""
}

// Validation errors shared by the forms and the CLI. Field-level so the
// TUI can attach them as per-field validators; none of these ever reach
// the network.
var (
	ErrTitleRequired     = errors.New("title is required")
	ErrAmountInvalid     = errors.New("amount must be a number")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrDateInvalid       = errors.New("date must be YYYY-MM-DD")
	ErrCategoryRequired  = errors.New("category is required")
)

// ValidateTitle rejects empty or whitespace-only titles.
func ValidateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrTitleRequired
	}
	return nil
}

// ParseAmount parses a user-entered amount and enforces amount > 0.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimPrefix(s, "$")))
	if err != nil {
		return decimal.Decimal{}, ErrAmountInvalid
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, ErrAmountNotPositive
	}
	return d, nil
}

// ValidateExpense checks a complete input, returning the first error per
// field keyed by field name. An empty map means the input is submittable.
func ValidateExpense(in ExpenseInput) map[string]error {
	errs := make(map[string]error)
	if err := ValidateTitle(in.Title); err != nil {
		errs["title"] = err
	}
	if !in.Amount.IsPositive() {
		errs["amount"] = ErrAmountNotPositive
	}
	if in.Date.IsZero() {
		errs["date"] = ErrDateInvalid
	}
	if in.CategoryID == "" {
		errs["category"] = ErrCategoryRequired
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
