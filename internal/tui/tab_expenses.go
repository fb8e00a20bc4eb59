package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/cli"
	"github.com/spent-dev/spent/internal/model"
	"github.com/spent-dev/spent/internal/query"
	"github.com/spent-dev/spent/internal/tui/components"
	"github.com/spent-dev/spent/internal/tui/theme"
)

// expensesState holds the expenses tab: filter, client-side page, cursor,
// and the modal layers (form, delete confirm).
type expensesState struct {
	filter   model.FilterOptions
	page     int // 1-based
	pageSize int
	cursor   int // index within the visible page

	searching bool
	search    textinput.Model
	catIdx    int // -1 = all categories

	form      *huh.Form
	formVals  expenseFormVals
	editingID string // "" while creating

	confirm     *huh.Form
	confirmed   bool
	deleteID    string
	deleteTitle string
}

type expenseFormVals struct {
	title      string
	amount     string
	date       string
	categoryID string
	notes      string
	receiptURL string
}

func newExpensesState(filter model.FilterOptions, pageSize int) expensesState {
	ti := textinput.New()
	ti.Placeholder = "search title or notes"
	ti.CharLimit = 80
	ti.Width = 32

	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return expensesState{
		filter:   filter,
		page:     1,
		pageSize: pageSize,
		search:   ti,
		catIdx:   -1,
	}
}

// visibleExpenses slices the fetched set into the current page.
func (a App) visibleExpenses() ([]model.Expense, int, int) {
	page, _, has := a.peekExpenses()
	if !has {
		return nil, 0, 0
	}
	total := len(page.Expenses)
	pages := model.PageCount(total, a.exp.pageSize)
	start, end, ok := model.PageBounds(total, a.exp.page, a.exp.pageSize)
	if !ok {
		return nil, total, pages
	}
	return page.Expenses[start:end], total, pages
}

// clampExpenseCursor keeps page and cursor valid after a refetch shrinks
// the set (for example after a delete).
func (a *App) clampExpenseCursor() {
	page, _, has := a.peekExpenses()
	if !has {
		return
	}
	total := len(page.Expenses)
	pages := model.PageCount(total, a.exp.pageSize)
	if pages == 0 {
		a.exp.page, a.exp.cursor = 1, 0
		return
	}
	if a.exp.page > pages {
		a.exp.page = pages
	}
	start, end, _ := model.PageBounds(total, a.exp.page, a.exp.pageSize)
	if n := end - start; a.exp.cursor >= n && n > 0 {
		a.exp.cursor = n - 1
	}
}

// setFilter swaps to a new composite key and resets paging. The previous
// key's cached page is left untouched.
func (a *App) setFilter(f model.FilterOptions) tea.Cmd {
	a.exp.filter = f
	a.exp.page = 1
	a.exp.cursor = 0
	return a.fetchExpensesCmd(f)
}

func (a App) updateExpenses(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible, _, pages := a.visibleExpenses()

	switch key.String() {
	case "j", "down":
		if a.exp.cursor < len(visible)-1 {
			a.exp.cursor++
		}
		return a, nil
	case "k", "up":
		if a.exp.cursor > 0 {
			a.exp.cursor--
		}
		return a, nil
	case "h", "left":
		// Out-of-range page requests are no-ops.
		if a.exp.page > 1 {
			a.exp.page--
			a.exp.cursor = 0
		}
		return a, nil
	case "l", "right":
		if a.exp.page < pages {
			a.exp.page++
			a.exp.cursor = 0
		}
		return a, nil
	case "f":
		f := a.exp.filter
		f.TimeFilter = f.TimeFilter.Next()
		a.dash.filter.TimeFilter = f.TimeFilter
		_ = a.state.SetLastTimeFilter(string(f.TimeFilter))
		return a, tea.Batch(a.setFilter(f), a.fetchSummaryCmd(a.dash.filter))
	case "c":
		return a, a.cycleCategoryFilter()
	case "/":
		a.exp.searching = true
		a.exp.search.SetValue(a.exp.filter.SearchQuery)
		a.exp.search.Focus()
		return a, textinput.Blink
	case "r":
		return a, a.fetchExpensesCmd(a.exp.filter)
	case "a":
		return a.openExpenseForm(nil)
	case "e":
		if a.exp.cursor < len(visible) {
			e := visible[a.exp.cursor]
			return a.openExpenseForm(&e)
		}
		return a, nil
	case "d":
		if a.exp.cursor < len(visible) {
			return a.openDeleteConfirm(visible[a.exp.cursor])
		}
		return a, nil
	}
	return a, nil
}

// cycleCategoryFilter steps through all -> each category -> all.
func (a *App) cycleCategoryFilter() tea.Cmd {
	cats := a.peekCategories()
	if len(cats) == 0 {
		return nil
	}
	a.exp.catIdx++
	f := a.exp.filter
	if a.exp.catIdx >= len(cats) {
		a.exp.catIdx = -1
		f.Categories = nil
	} else {
		f.Categories = []string{cats[a.exp.catIdx].Name}
	}
	return a.setFilter(f)
}

func (a App) updateExpensesSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		a.exp.searching = false
		a.exp.search.Blur()
		f := a.exp.filter
		f.SearchQuery = strings.TrimSpace(a.exp.search.Value())
		return a, a.setFilter(f)
	case "esc":
		a.exp.searching = false
		a.exp.search.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.exp.search, cmd = a.exp.search.Update(key)
	return a, cmd
}

// openExpenseForm opens the create form, or the edit form pre-filled from
// an existing record. Validation is attached per field and blocks
// submission before any network call.
func (a App) openExpenseForm(existing *model.Expense) (tea.Model, tea.Cmd) {
	cats := a.peekCategories()
	if len(cats) == 0 {
		return a, a.setNotice("categories not loaded yet", true)
	}

	vals := expenseFormVals{
		date:       cli.FormatDateISO(timeNow()),
		categoryID: cats[0].ID,
	}
	a.exp.editingID = ""
	if existing != nil {
		in := model.InputFromExpense(*existing)
		vals = expenseFormVals{
			title:      in.Title,
			amount:     in.Amount.String(),
			date:       cli.FormatDateISO(in.Date),
			categoryID: in.CategoryID,
			notes:      in.Notes,
			receiptURL: in.ReceiptURL,
		}
		a.exp.editingID = existing.ID
	}
	a.exp.formVals = vals
	a.exp.form = newExpenseForm(&a.exp.formVals, cats)
	return a, a.exp.form.Init()
}

func newExpenseForm(vals *expenseFormVals, cats []model.Category) *huh.Form {
	opts := make([]huh.Option[string], 0, len(cats))
	for _, c := range cats {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&vals.title).
			Validate(model.ValidateTitle),
		huh.NewInput().
			Title("Amount").
			Value(&vals.amount).
			Validate(func(s string) error {
				_, err := model.ParseAmount(s)
				return err
			}),
		huh.NewInput().
			Title("Date (YYYY-MM-DD)").
			Value(&vals.date).
			Validate(func(s string) error {
				if _, err := model.ParseDate(s); err != nil {
					return model.ErrDateInvalid
				}
				return nil
			}),
		huh.NewSelect[string]().
			Title("Category").
			Options(opts...).
			Value(&vals.categoryID),
		huh.NewInput().
			Title("Notes (optional)").
			Value(&vals.notes),
		huh.NewInput().
			Title("Receipt URL (optional)").
			Value(&vals.receiptURL),
	)).WithShowHelp(false)
}

func (a App) openDeleteConfirm(e model.Expense) (tea.Model, tea.Cmd) {
	a.exp.deleteID = e.ID
	a.exp.deleteTitle = e.Title
	a.exp.confirmed = false
	a.exp.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q (%s)?", e.Title, cli.FormatAmount(e.Amount))).
			Affirmative("Delete").
			Negative("Keep").
			Value(&a.exp.confirmed),
	)).WithShowHelp(false)
	return a, a.exp.confirm.Init()
}

// updateExpensesModal routes input to the open form or confirm dialog.
func (a App) updateExpensesModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.exp.form = nil
		a.exp.confirm = nil
		return a, nil
	}

	if a.exp.confirm != nil {
		form, cmd := a.exp.confirm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			a.exp.confirm = f
		}
		if a.exp.confirm.State == huh.StateCompleted {
			confirmed := a.exp.confirmed
			id := a.exp.deleteID
			a.exp.confirm = nil
			// The dialog closes either way; the list drops the row once
			// the invalidated read refetches.
			if confirmed {
				return a, a.deleteExpenseCmd(id)
			}
			return a, nil
		}
		if a.exp.confirm.State == huh.StateAborted {
			a.exp.confirm = nil
			return a, nil
		}
		return a, cmd
	}

	if a.exp.form == nil {
		return a, nil
	}
	form, cmd := a.exp.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.exp.form = f
	}
	if a.exp.form.State == huh.StateCompleted {
		vals := a.exp.formVals
		editingID := a.exp.editingID
		a.exp.form = nil
		return a.submitExpenseForm(vals, editingID)
	}
	if a.exp.form.State == huh.StateAborted {
		a.exp.form = nil
		return a, nil
	}
	return a, cmd
}

func (a App) submitExpenseForm(vals expenseFormVals, editingID string) (tea.Model, tea.Cmd) {
	amount, err := model.ParseAmount(vals.amount)
	if err != nil {
		return a, a.setNotice(err.Error(), true)
	}
	date, err := model.ParseDate(vals.date)
	if err != nil {
		return a, a.setNotice(model.ErrDateInvalid.Error(), true)
	}

	in := model.ExpenseInput{
		Title:      strings.TrimSpace(vals.title),
		Amount:     amount,
		Date:       date,
		CategoryID: vals.categoryID,
		Notes:      strings.TrimSpace(vals.notes),
		ReceiptURL: strings.TrimSpace(vals.receiptURL),
	}
	if errs := model.ValidateExpense(in); errs != nil {
		for _, e := range errs {
			return a, a.setNotice(e.Error(), true)
		}
	}

	if editingID != "" {
		return a, a.updateExpenseCmd(editingID, in)
	}
	return a, a.createExpenseCmd(in)
}

func (a App) viewExpenses(cw int) string {
	t := theme.Active

	if a.exp.form != nil {
		title := "New Expense"
		if a.exp.editingID != "" {
			title = "Edit Expense"
		}
		return components.Card(title, a.exp.form.View(), cw)
	}
	if a.exp.confirm != nil {
		return components.Card("Confirm", a.exp.confirm.View(), cw)
	}

	_, snap, has := a.peekExpenses()
	if !has {
		if snap.Status == query.StatusError {
			return components.Card("Expenses", lipgloss.NewStyle().Foreground(t.Red).Render(snap.Err.Error()), cw)
		}
		return components.Card("Expenses", "  "+a.spinner.View()+" Loading...", cw)
	}

	visible, total, pages := a.visibleExpenses()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	innerW := components.CardInnerWidth(cw)
	titleW := innerW - 46
	if titleW < 12 {
		titleW = 12
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-11s  %-*s  %-14s  %10s", "Date", titleW, "Title", "Category", "Amount")))
	b.WriteByte('\n')
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteByte('\n')

	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("No expenses match the current filter"))
	}
	for i, e := range visible {
		line := fmt.Sprintf("%-11s  %-*s  %s %-12s  %10s",
			cli.FormatDate(e.Date),
			titleW, cli.Truncate(e.Title, titleW),
			components.Dot(e.CategoryColor),
			cli.Truncate(e.CategoryName, 12),
			cli.FormatAmount(e.Amount))
		if i == a.exp.cursor {
			b.WriteString(selStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteByte('\n')
	}

	// Detail line for the selected row.
	if a.exp.cursor < len(visible) {
		sel := visible[a.exp.cursor]
		detail := ""
		if sel.Notes != "" {
			detail = sel.Notes
		}
		if sel.ReceiptURL != "" {
			if detail != "" {
				detail += "  ·  "
			}
			detail += "receipt: " + sel.ReceiptURL
		}
		if detail != "" {
			b.WriteByte('\n')
			b.WriteString(mutedStyle.Render(cli.Truncate(detail, innerW)))
		}
	}

	title := fmt.Sprintf("Expenses · %s · page %d/%d · %d items",
		a.exp.filter.TimeFilter.Label(), a.exp.page, max(pages, 1), total)
	if len(a.exp.filter.Categories) > 0 {
		title += " · " + strings.Join(a.exp.filter.Categories, ",")
	}
	if a.exp.filter.SearchQuery != "" {
		title += " · /" + a.exp.filter.SearchQuery
	}

	out := components.Card(title, b.String(), cw)
	if a.exp.searching {
		out += "\n " + a.exp.search.View()
	}
	if snap.Err != nil {
		out += "\n " + lipgloss.NewStyle().Foreground(t.Yellow).Render("showing cached data · "+snap.Err.Error())
	}
	return out
}
