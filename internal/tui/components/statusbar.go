package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/tui/theme"
)

// StatusBar renders the bottom bar: key hints on the left, a transient
// notice (error or confirmation) on the right.
func StatusBar(width int, hints, notice string, noticeIsErr bool) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(width)

	right := ""
	if notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(t.Green)
		if noticeIsErr {
			noticeStyle = lipgloss.NewStyle().Foreground(t.Red)
		}
		right = noticeStyle.Render(notice) + " "
	}

	left := " " + hints
	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}

	bar := left
	for i := 0; i < pad; i++ {
		bar += " "
	}
	bar += right
	return barStyle.Render(bar)
}
