package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/tui/theme"
)

// Bar is one row of a horizontal bar list.
type Bar struct {
	Label string
	Value string  // pre-formatted value shown after the bar
	Share float64 // 0-1 share of the widest bar
	Color string  // hex color; empty falls back to the accent
}

// Dot renders a colored category marker.
func Dot(color string) string {
	t := theme.Active
	c := lipgloss.Color(color)
	if color == "" {
		c = t.Accent
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

// HBarList renders labelled horizontal bars, one per row, sized to width.
// Used for the per-category breakdown; bar colors come from the category.
func HBarList(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	valueW := 0
	for _, b := range bars {
		if w := lipgloss.Width(b.Label); w > labelW {
			labelW = w
		}
		if w := lipgloss.Width(b.Value); w > valueW {
			valueW = w
		}
	}
	if labelW > 16 {
		labelW = 16
	}

	// label + dot + gaps + value
	barW := width - labelW - valueW - 6
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	trackStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	for i, bar := range bars {
		if i > 0 {
			b.WriteByte('\n')
		}

		filled := int(bar.Share*float64(barW) + 0.5)
		if filled > barW {
			filled = barW
		}
		if filled < 1 && bar.Share > 0 {
			filled = 1
		}

		color := lipgloss.Color(bar.Color)
		if bar.Color == "" {
			color = t.Accent
		}
		barStyle := lipgloss.NewStyle().Foreground(color)

		b.WriteString(Dot(bar.Color))
		b.WriteByte(' ')
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(bar.Label, labelW))))
		b.WriteByte(' ')
		b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(trackStyle.Render(strings.Repeat("░", barW-filled)))
		b.WriteByte(' ')
		b.WriteString(valueStyle.Render(fmt.Sprintf("%*s", valueW, bar.Value)))
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
