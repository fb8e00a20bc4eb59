package cli

import (
	"fmt"
	"strings"
)

// Column describes one table column.
type Column struct {
	Header string
	Width  int
	Right  bool // right-align (amounts, counts)
}

// Table renders a plain fixed-width table for the non-TUI commands.
// Cells longer than the column width are truncated with an ellipsis.
func Table(cols []Column, rows [][]string) string {
	var b strings.Builder

	for i, c := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(pad(c.Header, c.Width, c.Right))
	}
	b.WriteByte('\n')

	for i, c := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("─", c.Width))
	}
	b.WriteByte('\n')

	for _, row := range rows {
		for i, c := range cols {
			if i > 0 {
				b.WriteString("  ")
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(pad(Truncate(cell, c.Width), c.Width, c.Right))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func pad(s string, width int, right bool) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// KV renders an aligned label/value block for detail output.
func KV(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%-*s  %s\n", width, p[0], p[1])
	}
	return b.String()
}
