package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spent-dev/spent/internal/api"
	"github.com/spent-dev/spent/internal/model"
	"github.com/spent-dev/spent/internal/query"
)

// seedExpenses puts n expenses into the cache under the app's current
// expenses key.
func seedExpenses(t *testing.T, a *App, n int) {
	t.Helper()
	page := api.ExpensePage{}
	for i := 0; i < n; i++ {
		page.Expenses = append(page.Expenses, model.Expense{
			ID:     fmt.Sprintf("e%d", i),
			Title:  fmt.Sprintf("item %d", i),
			Amount: decimal.NewFromInt(int64(i + 1)),
		})
	}
	_, err := a.cache.Get(context.Background(), expensesKey(a.exp.filter), func(ctx context.Context) (any, error) {
		return page, nil
	})
	if err != nil {
		t.Fatalf("seeding cache: %v", err)
	}
}

func newTestApp() App {
	return App{
		cache: query.New(),
		exp:   newExpensesState(model.DefaultFilter(), 10),
	}
}

func TestVisibleExpensesPagesClientSide(t *testing.T) {
	a := newTestApp()
	seedExpenses(t, &a, 23)

	visible, total, pages := a.visibleExpenses()
	if total != 23 || pages != 3 {
		t.Fatalf("total=%d pages=%d, want 23 and 3", total, pages)
	}
	if len(visible) != 10 {
		t.Fatalf("page 1 has %d rows, want 10", len(visible))
	}
	if visible[0].ID != "e0" {
		t.Fatalf("page 1 starts at %s, want e0", visible[0].ID)
	}

	a.exp.page = 3
	visible, _, _ = a.visibleExpenses()
	if len(visible) != 3 {
		t.Fatalf("page 3 has %d rows, want 3", len(visible))
	}
	if visible[0].ID != "e20" {
		t.Fatalf("page 3 starts at %s, want e20", visible[0].ID)
	}

	// Out of range pages render no rows; navigation treats them as a
	// no-op before ever getting here.
	a.exp.page = 4
	visible, _, _ = a.visibleExpenses()
	if len(visible) != 0 {
		t.Fatalf("page 4 has %d rows, want 0", len(visible))
	}
}

func TestClampAfterShrink(t *testing.T) {
	a := newTestApp()
	seedExpenses(t, &a, 23)
	a.exp.page = 3
	a.exp.cursor = 2

	// A refetch after deletes leaves 11 items: two pages.
	seedExpenses(t, &a, 11)
	a.clampExpenseCursor()

	if a.exp.page != 2 {
		t.Fatalf("page = %d, want clamped to 2", a.exp.page)
	}
	if a.exp.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 (last page has one row)", a.exp.cursor)
	}
}

func TestClampToEmpty(t *testing.T) {
	a := newTestApp()
	seedExpenses(t, &a, 5)
	a.exp.cursor = 4

	seedExpenses(t, &a, 0)
	a.clampExpenseCursor()

	if a.exp.page != 1 || a.exp.cursor != 0 {
		t.Fatalf("page=%d cursor=%d, want 1 and 0", a.exp.page, a.exp.cursor)
	}
}

func TestQueryDoneIgnoresStaleKeys(t *testing.T) {
	a := newTestApp()
	seedExpenses(t, &a, 5)
	a.exp.cursor = 3

	// A completion for a filter the screen has moved off must not touch
	// the cursor.
	old := model.FilterOptions{TimeFilter: model.LastMonth}
	next, cmd := a.updateQueryDone(queryDoneMsg{key: expensesKey(old)})
	if cmd != nil {
		t.Fatal("stale completion produced a command")
	}
	got := next.(App)
	if got.exp.cursor != 3 {
		t.Fatalf("cursor = %d, want untouched 3", got.exp.cursor)
	}
}

func TestQueryDoneDropsSupersededGenerations(t *testing.T) {
	a := newTestApp()
	seedExpenses(t, &a, 23)
	a.exp.page = 3

	// A second request for the same key applies before the first one's
	// completion message is handled.
	seedExpenses(t, &a, 5)

	key := expensesKey(a.exp.filter)
	next, cmd := a.updateQueryDone(queryDoneMsg{key: key, gen: 1, err: errors.New("slow fetch failed")})
	if cmd != nil {
		t.Fatal("superseded completion produced a command")
	}
	got := next.(App)
	if got.exp.page != 3 {
		t.Fatalf("page = %d, superseded completion must not clamp", got.exp.page)
	}

	// The newest completion still lands and clamps against the 5-item
	// result.
	next, _ = got.updateQueryDone(queryDoneMsg{key: key, gen: 2})
	got = next.(App)
	if got.exp.page != 1 {
		t.Fatalf("page = %d, want clamped to 1", got.exp.page)
	}
}

func TestTabKeyAvailability(t *testing.T) {
	a := newTestApp()
	a.activeTab = 0
	if !a.tabKeyAvailable('e') {
		t.Fatal("'e' should switch tabs from the dashboard")
	}

	// The expenses screen owns 'd' (delete) and 'e' (edit).
	a.activeTab = 1
	if a.tabKeyAvailable('d') || a.tabKeyAvailable('e') {
		t.Fatal("expenses screen must keep its own shortcuts")
	}
	if !a.tabKeyAvailable('p') {
		t.Fatal("'p' should still switch to profile")
	}
}
