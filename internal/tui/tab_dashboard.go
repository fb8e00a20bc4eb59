package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/spent-dev/spent/internal/cli"
	"github.com/spent-dev/spent/internal/model"
	"github.com/spent-dev/spent/internal/query"
	"github.com/spent-dev/spent/internal/tui/components"
	"github.com/spent-dev/spent/internal/tui/theme"
)

// dashState holds the dashboard tab state.
type dashState struct {
	filter model.FilterOptions
}

func (a App) updateDashboard(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "f":
		// Cycle the time window. The read re-keys: a slow response for
		// the previous window can never render over the new one.
		a.dash.filter.TimeFilter = a.dash.filter.TimeFilter.Next()
		_ = a.state.SetLastTimeFilter(string(a.dash.filter.TimeFilter))
		return a, a.fetchSummaryCmd(a.dash.filter)
	case "r":
		return a, tea.Batch(a.fetchSummaryCmd(a.dash.filter), a.fetchCategoriesCmd())
	}
	return a, nil
}

func (a App) viewDashboard(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	summary, snap, has := a.peekSummary()
	if !has {
		if snap.Status == query.StatusError {
			return components.Card("Dashboard", lipgloss.NewStyle().Foreground(t.Red).Render(snap.Err.Error()), cw)
		}
		return components.Card("Dashboard", "  "+a.spinner.View()+" Loading "+a.dash.filter.TimeFilter.Label()+"...", cw)
	}

	count := 0
	for _, c := range summary.ByCategory {
		count += c.Count
	}

	avg := decimal.Zero
	if count > 0 {
		avg = summary.Total.Div(decimal.NewFromInt(int64(count))).Round(2)
	}

	topLabel := "—"
	if top, ok := summary.TopCategory(); ok {
		topLabel = top.Name
	}

	stats := []components.Stat{
		{Label: "Total · " + a.dash.filter.TimeFilter.Label(), Value: cli.FormatAmount(summary.Total)},
		{Label: "Expenses", Value: cli.FormatNumber(int64(count))},
		{Label: "Average", Value: cli.FormatAmount(avg)},
		{Label: "Top Category", Value: topLabel},
	}
	statRow := components.StatRow(stats, cw)

	// Per-category bars, colored by category, largest first.
	var bars []components.Bar
	var maxAmount decimal.Decimal
	for _, c := range summary.ByCategory {
		if c.Amount.GreaterThan(maxAmount) {
			maxAmount = c.Amount
		}
	}
	for _, c := range summary.ByCategory {
		if c.Count == 0 {
			continue
		}
		share := 0.0
		if maxAmount.IsPositive() {
			share, _ = c.Amount.Div(maxAmount).Float64()
		}
		bars = append(bars, components.Bar{
			Label: c.Name,
			Value: cli.FormatAmount(c.Amount) + " · " + cli.Pct(c.Percentage),
			Share: share,
			Color: c.Color,
		})
	}

	widths := components.SplitWidths(cw, 2)
	breakdownBody := "No expenses in this period"
	if len(bars) > 0 {
		breakdownBody = components.HBarList(bars, components.CardInnerWidth(widths[0]))
	}
	breakdown := components.Card("By Category", breakdownBody, widths[0])

	// Recent expenses list.
	var recent strings.Builder
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	innerW := components.CardInnerWidth(widths[1])
	for i, e := range summary.RecentExpenses {
		if i > 0 {
			recent.WriteByte('\n')
		}
		amount := cli.FormatAmount(e.Amount)
		titleW := innerW - len(amount) - 16
		if titleW < 8 {
			titleW = 8
		}
		recent.WriteString(components.Dot(e.CategoryColor))
		recent.WriteByte(' ')
		recent.WriteString(mutedStyle.Render(e.Date.Format("Jan 02")))
		recent.WriteByte(' ')
		recent.WriteString(valueStyle.Render(padRight(cli.Truncate(e.Title, titleW), titleW)))
		recent.WriteByte(' ')
		recent.WriteString(valueStyle.Render(amount))
	}
	recentBody := recent.String()
	if recentBody == "" {
		recentBody = "Nothing yet"
	}
	recentCard := components.Card("Recent", recentBody, widths[1])

	out := statRow + "\n" + components.JoinCards(breakdown, recentCard)
	if snap.Err != nil {
		// Refetch failed: the prior data stays up, flagged.
		out += "\n " + lipgloss.NewStyle().Foreground(t.Yellow).Render("showing cached data · "+snap.Err.Error())
	}
	return out
}

func padRight(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
