package gridcalc

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable listing of the sheet: its size and every
// non-empty cell with formula, value, colors and dependents. Useful for
// debugging formulas during development.
func (s *Sheet) Describe() string {
	var b strings.Builder
	g := s.grid
	fmt.Fprintf(&b, "Sheet: %d rows x %d cols %s\n", g.rows, g.cols, g.Size())

	var cells []string
	g.each(func(c *Cell) {
		if c.IsEmpty() {
			return
		}
		cells = append(cells, describeCell(c))
	})
	if len(cells) == 0 {
		b.WriteString("  (empty)\n")
		return b.String()
	}
	b.WriteString("  Cells:\n")
	for _, line := range cells {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// describeCell renders one cell as "    A2 = A1+10 -> 15 [deps: B2]".
func describeCell(c *Cell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    %s", c.name)
	if IsFormula(c.formula) {
		fmt.Fprintf(&b, " %s -> %q", c.formula, c.value)
	} else {
		fmt.Fprintf(&b, " %q", c.value)
	}
	if c.foreground != DefaultForeground || c.background != DefaultBackground {
		fmt.Fprintf(&b, " fg=%s bg=%s", c.foreground, c.background)
	}
	if len(c.dependents) > 0 {
		fmt.Fprintf(&b, " [deps: %s]", strings.Join(c.dependents, ", "))
	}
	return b.String()
}
