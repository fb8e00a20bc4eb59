package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spent-dev/spent/internal/tui/theme"
)

// Tab is one entry in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines the screens in display order.
var Tabs = []Tab{
	{Name: "Dashboard", Key: 'd'},
	{Name: "Expenses", Key: 'e'},
	{Name: "Profile", Key: 'p'},
}

// TabBar renders the tab bar with the given active index.
func TabBar(activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	bracketStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		// First letter doubles as the shortcut.
		parts = append(parts,
			bracketStyle.Render("[")+keyStyle.Render(string(tab.Name[0]))+bracketStyle.Render("]")+
				inactiveStyle.Render(tab.Name[1:]))
	}
	return " " + strings.Join(parts, "  ")
}

// TabIdxByKey returns the tab index for a key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabIdxByName returns the tab index for a case-insensitive name, or -1.
func TabIdxByName(name string) int {
	for i, tab := range Tabs {
		if strings.EqualFold(tab.Name, name) {
			return i
		}
	}
	return -1
}
