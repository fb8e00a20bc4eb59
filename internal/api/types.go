package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spent-dev/spent/internal/model"
)

// flexID parses the polymorphic id fields: the backend emits integers for
// serial columns but the contract treats IDs as opaque strings.
type flexID string

func (f *flexID) UnmarshalJSON(raw []byte) error {
	if len(raw) == 0 || string(raw) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// wireTime parses timestamps tolerating date-only, RFC3339, and zoneless
// forms. A missing or unparseable value decodes to the zero time rather
// than failing the whole payload.
type wireTime struct{ time.Time }

func (w *wireTime) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		w.Time = time.Time{}
		return nil
	}
	if t, err := model.ParseDate(s); err == nil {
		w.Time = t
	} else {
		w.Time = time.Time{}
	}
	return nil
}

// wireUser is the snake_case user object from /auth endpoints.
type wireUser struct {
	ID          flexID   `json:"id"`
	Email       string   `json:"email"`
	DisplayName *string  `json:"display_name"`
	PhotoURL    *string  `json:"photo_url"`
	CreatedAt   wireTime `json:"created_at"`
}

func (w wireUser) toModel() model.User {
	u := model.User{
		ID:        string(w.ID),
		Email:     w.Email,
		CreatedAt: w.CreatedAt.Time,
	}
	if w.DisplayName != nil {
		u.DisplayName = *w.DisplayName
	}
	if w.PhotoURL != nil {
		u.PhotoURL = *w.PhotoURL
	}
	return u
}

type wireCategory struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (w wireCategory) toModel() model.Category {
	return model.Category{ID: string(w.ID), Name: w.Name, Color: w.Color}
}

// wireExpense is the joined expense row from /expenses endpoints.
type wireExpense struct {
	ID            flexID          `json:"id"`
	UserID        flexID          `json:"user_id"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Date          wireTime        `json:"date"`
	CategoryID    flexID          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
	Notes         *string         `json:"notes"`
	ReceiptURL    *string         `json:"receipt_url"`
	CreatedAt     wireTime        `json:"created_at"`
	UpdatedAt     wireTime        `json:"updated_at"`
}

func (w wireExpense) toModel() model.Expense {
	e := model.Expense{
		ID:            string(w.ID),
		UserID:        string(w.UserID),
		Title:         w.Title,
		Amount:        w.Amount,
		Date:          w.Date.Time,
		CategoryID:    string(w.CategoryID),
		CategoryName:  w.CategoryName,
		CategoryColor: w.CategoryColor,
		CreatedAt:     w.CreatedAt.Time,
		UpdatedAt:     w.UpdatedAt.Time,
	}
	if w.Notes != nil {
		e.Notes = *w.Notes
	}
	if w.ReceiptURL != nil {
		e.ReceiptURL = *w.ReceiptURL
	}
	return e
}

func wireExpenses(ws []wireExpense) []model.Expense {
	out := make([]model.Expense, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toModel())
	}
	return out
}

// expensePayload is the camelCase request body for create and update.
type expensePayload struct {
	Title      string `json:"title"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	CategoryID string `json:"categoryId"`
	Notes      string `json:"notes,omitempty"`
	ReceiptURL string `json:"receiptUrl,omitempty"`
}

func payloadFromInput(in model.ExpenseInput) expensePayload {
	return expensePayload{
		Title:      strings.TrimSpace(in.Title),
		Amount:     in.Amount.String(),
		Date:       in.Date.Format(model.DateLayout),
		CategoryID: in.CategoryID,
		Notes:      strings.TrimSpace(in.Notes),
		ReceiptURL: strings.TrimSpace(in.ReceiptURL),
	}
}

// wireCategorySummary tolerates amount arriving as number or string.
type wireCategorySummary struct {
	ID         flexID          `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

func (w wireCategorySummary) toModel() model.CategorySummary {
	return model.CategorySummary{
		ID:         string(w.ID),
		Name:       w.Name,
		Color:      w.Color,
		Amount:     w.Amount,
		Count:      w.Count,
		Percentage: w.Percentage,
	}
}

func decimalFromNumber(n json.Number) (decimal.Decimal, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parsePage defensively converts paging numbers that may arrive as floats.
func parsePage(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return 0
}
