package format

import (
	"strings"

	"golang.org/x/text/width"
)

// Box drawing set for rendered tables: double outer border, single inner rules.
const (
	borderVertical   = "║"
	borderHorizontal = "═"
	ruleVertical     = "│"
	ruleHorizontal   = "─"
)

// renderTable draws rows as a bordered table with a rule under the first (header) row.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	line := func(left, fill, join, right string) {
		b.WriteString(left)
		for i, w := range widths {
			if i > 0 {
				b.WriteString(join)
			}
			b.WriteString(strings.Repeat(fill, w+2))
		}
		b.WriteString(right)
		b.WriteByte('\n')
	}

	line("╔", borderHorizontal, "╤", "╗")
	for r, row := range rows {
		b.WriteString(borderVertical)
		for i, cell := range row {
			if i > 0 {
				b.WriteString(ruleVertical)
			}
			b.WriteByte(' ')
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-displayWidth(cell)+1))
		}
		b.WriteString(borderVertical)
		b.WriteByte('\n')
		if r == 0 && len(rows) > 1 {
			line("╟", ruleHorizontal, "┼", "╢")
		}
	}
	line("╚", borderHorizontal, "╧", "╝")

	return b.String()
}

// displayWidth counts terminal columns, two for East Asian wide and fullwidth runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
