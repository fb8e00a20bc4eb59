package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spent-dev/spent/internal/api"
	"github.com/spent-dev/spent/internal/model"
	"github.com/spent-dev/spent/internal/query"
)

// clientFetchLimit is the page size requested from the server. Paging is
// client-side over the fetched set, so one request covers the whole view.
const clientFetchLimit = 500

func categoriesKey() query.Key {
	return query.NewKey(query.OpCategories, "")
}

func summaryKey(f model.FilterOptions) query.Key {
	return query.NewKey(query.OpSummary, f.SummaryArgs())
}

func expensesKey(f model.FilterOptions) query.Key {
	return query.NewKey(query.OpExpenses, f.CacheArgs())
}

// fetchCmd runs a cached read and reports its applied generation, so the
// Update loop can drop completions superseded by a newer request.
func fetchCmd[T any](cache *query.Cache, key query.Key, fn func(ctx context.Context) (T, error)) tea.Cmd {
	return func() tea.Msg {
		_, err := query.Fetch(context.Background(), cache, key, fn)
		gen := uint64(0)
		if snap, ok := cache.Peek(key); ok {
			gen = snap.Generation
		}
		return queryDoneMsg{key: key, gen: gen, err: err}
	}
}

func (a App) fetchCategoriesCmd() tea.Cmd {
	client := a.client
	return fetchCmd(a.cache, categoriesKey(), func(ctx context.Context) ([]model.Category, error) {
		return client.Categories(ctx)
	})
}

func (a App) fetchSummaryCmd(f model.FilterOptions) tea.Cmd {
	client := a.client
	return fetchCmd(a.cache, summaryKey(f), func(ctx context.Context) (model.Summary, error) {
		return client.Summary(ctx, f)
	})
}

func (a App) fetchExpensesCmd(f model.FilterOptions) tea.Cmd {
	client := a.client
	return fetchCmd(a.cache, expensesKey(f), func(ctx context.Context) (api.ExpensePage, error) {
		return client.Expenses(ctx, f, 1, clientFetchLimit)
	})
}

// peekCategories returns the cached category list, or nil before first load.
func (a App) peekCategories() []model.Category {
	if snap, ok := a.cache.Peek(categoriesKey()); ok {
		if cats, ok := snap.Data.([]model.Category); ok {
			return cats
		}
	}
	return nil
}

// peekSummary returns the cached summary for the dashboard filter.
func (a App) peekSummary() (model.Summary, query.Entry, bool) {
	snap, ok := a.cache.Peek(summaryKey(a.dash.filter))
	if !ok {
		return model.Summary{}, query.Entry{}, false
	}
	s, has := snap.Data.(model.Summary)
	return s, snap, has
}

// peekExpenses returns the cached page for the expenses filter.
func (a App) peekExpenses() (api.ExpensePage, query.Entry, bool) {
	snap, ok := a.cache.Peek(expensesKey(a.exp.filter))
	if !ok {
		return api.ExpensePage{}, query.Entry{}, false
	}
	p, has := snap.Data.(api.ExpensePage)
	return p, snap, has
}

// updateQueryDone handles read completions. Results for keys the screens
// are no longer looking at are dropped: navigating away stops state
// updates without cancelling the network call.
func (a App) updateQueryDone(msg queryDoneMsg) (tea.Model, tea.Cmd) {
	current := msg.key == categoriesKey() ||
		msg.key == summaryKey(a.dash.filter) ||
		msg.key == expensesKey(a.exp.filter)
	if !current {
		return a, nil
	}
	// A newer request for this key already applied; this completion is
	// obsolete and must not clamp the cursor or raise its error.
	if snap, ok := a.cache.Peek(msg.key); ok && snap.Generation > msg.gen {
		return a, nil
	}

	var cmd tea.Cmd
	if msg.err != nil {
		cmd = a.setNotice(msg.err.Error(), true)
	}

	if msg.key == expensesKey(a.exp.filter) {
		a.clampExpenseCursor()
	}
	return a, cmd
}

// updateMutationDone handles write completions: notify, then refetch the
// displayed keys the mutation invalidated.
func (a App) updateMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.setNotice(msg.err.Error(), true)
	}
	notice := a.setNotice("Expense "+msg.action, false)
	return a, tea.Batch(
		notice,
		a.fetchSummaryCmd(a.dash.filter),
		a.fetchExpensesCmd(a.exp.filter),
	)
}

func (a App) createExpenseCmd(in model.ExpenseInput) tea.Cmd {
	client, cache := a.client, a.cache
	return func() tea.Msg {
		_, err := cache.Mutate(context.Background(), func(ctx context.Context) (any, error) {
			return client.CreateExpense(ctx, in)
		}, query.OpExpenses, query.OpSummary)
		return mutationDoneMsg{action: "created", err: err}
	}
}

func (a App) updateExpenseCmd(id string, in model.ExpenseInput) tea.Cmd {
	client, cache := a.client, a.cache
	return func() tea.Msg {
		_, err := cache.Mutate(context.Background(), func(ctx context.Context) (any, error) {
			return client.UpdateExpense(ctx, id, in)
		}, query.OpExpenses, query.OpSummary)
		return mutationDoneMsg{action: "updated", err: err}
	}
}

func (a App) deleteExpenseCmd(id string) tea.Cmd {
	client, cache := a.client, a.cache
	return func() tea.Msg {
		_, err := cache.Mutate(context.Background(), func(ctx context.Context) (any, error) {
			return nil, client.DeleteExpense(ctx, id)
		}, query.OpExpenses, query.OpSummary)
		return mutationDoneMsg{action: "deleted", err: err}
	}
}
