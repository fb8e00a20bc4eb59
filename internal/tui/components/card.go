// Package components provides the reusable widgets the spent screens are
// assembled from.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/tui/theme"
)

// SplitWidths distributes totalWidth into n widths summing exactly to
// totalWidth; earlier items absorb the remainder.
func SplitWidths(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	rem := totalWidth % n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// Card renders a bordered panel with an optional title. outerWidth is the
// total rendered width including the border.
func Card(title, body string, outerWidth int) string {
	t := theme.Active

	w := outerWidth - 2
	if w < 10 {
		w = 10
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Width(w).
		Padding(0, 1)

	content := body
	if title != "" {
		titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
		content = titleStyle.Render(title) + "\n" + body
	}
	return style.Render(content)
}

// CardInnerWidth returns the usable text width inside a Card given its
// outer width (border plus padding).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4
	if w < 10 {
		w = 10
	}
	return w
}

// Stat renders a labelled metric.
type Stat struct {
	Label string
	Value string
	Note  string
}

// StatRow renders stats as a row of equal-width cards.
func StatRow(stats []Stat, totalWidth int) string {
	if len(stats) == 0 {
		return ""
	}
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	widths := SplitWidths(totalWidth, len(stats))
	cards := make([]string, 0, len(stats))
	for i, s := range stats {
		body := labelStyle.Render(s.Label) + "\n" + valueStyle.Render(s.Value)
		if s.Note != "" {
			body += "\n" + noteStyle.Render(s.Note)
		}
		cards = append(cards, Card("", body, widths[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// JoinCards joins pre-rendered cards horizontally.
func JoinCards(cards ...string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
