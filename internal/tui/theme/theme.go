// Package theme defines color roles for the spent TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name        string
	Surface     lipgloss.Color // panel backgrounds
	Border      lipgloss.Color // card borders
	TextDim     lipgloss.Color // hints, disabled
	TextMuted   lipgloss.Color // labels, metadata
	TextPrimary lipgloss.Color // content
	Accent      lipgloss.Color // active states, headers
	Green       lipgloss.Color // money in, success
	Red         lipgloss.Color // errors, deletes
	Yellow      lipgloss.Color // warnings, stale markers
}

// Active is the currently selected theme.
var Active = SlateDark

// SlateDark is the default theme.
var SlateDark = Theme{
	Name:        "slate-dark",
	Surface:     lipgloss.Color("#1A1D23"),
	Border:      lipgloss.Color("#3B4252"),
	TextDim:     lipgloss.Color("#4C566A"),
	TextMuted:   lipgloss.Color("#8A93A5"),
	TextPrimary: lipgloss.Color("#ECEFF4"),
	Accent:      lipgloss.Color("#79A8D9"),
	Green:       lipgloss.Color("#A3BE8C"),
	Red:         lipgloss.Color("#BF616A"),
	Yellow:      lipgloss.Color("#EBCB8B"),
}

// PaperLight is a light terminal theme.
var PaperLight = Theme{
	Name:        "paper-light",
	Surface:     lipgloss.Color("#F2F0E5"),
	Border:      lipgloss.Color("#B7B3A3"),
	TextDim:     lipgloss.Color("#A39E8C"),
	TextMuted:   lipgloss.Color("#6F6E69"),
	TextPrimary: lipgloss.Color("#100F0F"),
	Accent:      lipgloss.Color("#205EA6"),
	Green:       lipgloss.Color("#66800B"),
	Red:         lipgloss.Color("#AF3029"),
	Yellow:      lipgloss.Color("#AD8301"),
}

// All lists the selectable themes.
var All = []Theme{SlateDark, PaperLight}

// SetActive switches the active theme by name. Unknown names are ignored.
func SetActive(name string) {
	for _, t := range All {
		if t.Name == name {
			Active = t
			return
		}
	}
}
