package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spent-dev/spent/internal/model"
)

// ExpensePage is a filtered expense list plus its paging envelope.
type ExpensePage struct {
	Expenses   []model.Expense
	Pagination model.Pagination
}

// Expenses fetches the filtered expense list. page <= 0 requests the
// server default; pageSize <= 0 likewise.
func (c *Client) Expenses(ctx context.Context, f model.FilterOptions, page, pageSize int) (ExpensePage, error) {
	q := f.QueryValues()
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}

	raw, err := c.get(ctx, "/expenses", q)
	if err != nil {
		return ExpensePage{}, err
	}

	var resp struct {
		Expenses   []wireExpense `json:"expenses"`
		Pagination struct {
			Total    json.RawMessage `json:"total"`
			Page     json.RawMessage `json:"page"`
			PageSize json.RawMessage `json:"pageSize"`
			Pages    json.RawMessage `json:"pages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ExpensePage{}, fmt.Errorf("api: parsing expenses: %w", err)
	}

	return ExpensePage{
		Expenses: wireExpenses(resp.Expenses),
		Pagination: model.Pagination{
			Total:    parsePage(resp.Pagination.Total),
			Page:     parsePage(resp.Pagination.Page),
			PageSize: parsePage(resp.Pagination.PageSize),
			Pages:    parsePage(resp.Pagination.Pages),
		},
	}, nil
}

// Expense fetches a single record by id.
func (c *Client) Expense(ctx context.Context, id string) (model.Expense, error) {
	raw, err := c.get(ctx, "/expenses/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Expense{}, err
	}
	var w wireExpense
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Expense{}, fmt.Errorf("api: parsing expense: %w", err)
	}
	return w.toModel(), nil
}

// CreateExpense posts a new record and returns it as the server stored it.
func (c *Client) CreateExpense(ctx context.Context, in model.ExpenseInput) (model.Expense, error) {
	raw, err := c.send(ctx, "POST", "/expenses", payloadFromInput(in))
	if err != nil {
		return model.Expense{}, err
	}
	var w wireExpense
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Expense{}, fmt.Errorf("api: parsing created expense: %w", err)
	}
	return w.toModel(), nil
}

// UpdateExpense replaces the editable fields of an existing record.
func (c *Client) UpdateExpense(ctx context.Context, id string, in model.ExpenseInput) (model.Expense, error) {
	raw, err := c.send(ctx, "PUT", "/expenses/"+url.PathEscape(id), payloadFromInput(in))
	if err != nil {
		return model.Expense{}, err
	}
	var w wireExpense
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Expense{}, fmt.Errorf("api: parsing updated expense: %w", err)
	}
	return w.toModel(), nil
}

// DeleteExpense removes a record.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/expenses/"+url.PathEscape(id), nil)
	return err
}

// Summary fetches the aggregate view for the filter's time window.
func (c *Client) Summary(ctx context.Context, f model.FilterOptions) (model.Summary, error) {
	q := url.Values{}
	full := f.QueryValues()
	for _, k := range []string{"timeFilter", "startDate", "endDate"} {
		if v := full.Get(k); v != "" {
			q.Set(k, v)
		}
	}

	raw, err := c.get(ctx, "/expenses/summary", q)
	if err != nil {
		return model.Summary{}, err
	}

	var resp struct {
		Total          json.Number           `json:"total"`
		ByCategory     []wireCategorySummary `json:"byCategory"`
		RecentExpenses []wireExpense         `json:"recentExpenses"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.Summary{}, fmt.Errorf("api: parsing summary: %w", err)
	}

	s := model.Summary{RecentExpenses: wireExpenses(resp.RecentExpenses)}
	if d, err := decimalFromNumber(resp.Total); err == nil {
		s.Total = d
	}
	for _, w := range resp.ByCategory {
		s.ByCategory = append(s.ByCategory, w.toModel())
	}
	return s, nil
}
