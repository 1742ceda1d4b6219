package gridcalc

import "slices"

// Default cell colors.
const (
	DefaultForeground = "black"
	DefaultBackground = "white"
)

// Cell is a single addressable unit of the grid. It holds the raw formula as
// typed, the last computed display value, and both directions of the
// dependency graph keyed by upper-case cell name.
type Cell struct {
	pos        Position
	name       string
	formula    string
	value      string
	foreground string
	background string

	// dependents are the cells whose formulas reference this one.
	dependents []string
	// precedents are the cells this cell's formula references.
	precedents []string
}

func newCell(pos Position, name string) Cell {
	return Cell{
		pos:        pos,
		name:       name,
		foreground: DefaultForeground,
		background: DefaultBackground,
	}
}

// Name returns the cell's display name, e.g. "B7".
func (c *Cell) Name() string { return c.name }

// Position returns where the cell sits in its grid.
func (c *Cell) Position() Position { return c.pos }

// Formula returns the text last stored in the cell, or the error token if
// evaluating it failed.
func (c *Cell) Formula() string { return c.formula }

// Value returns the computed display value.
func (c *Cell) Value() string { return c.value }

// Foreground returns the text color.
func (c *Cell) Foreground() string { return c.foreground }

// Background returns the fill color.
func (c *Cell) Background() string { return c.background }

// Dependents returns a copy of the names of cells that reference this cell.
func (c *Cell) Dependents() []string { return slices.Clone(c.dependents) }

// Precedents returns a copy of the names of cells this cell references.
func (c *Cell) Precedents() []string { return slices.Clone(c.precedents) }

// IsEmpty reports whether the cell holds neither a formula nor a value.
func (c *Cell) IsEmpty() bool { return c.formula == "" && c.value == "" }

// setStyle updates the colors. Empty strings restore the defaults.
func (c *Cell) setStyle(fg, bg string) {
	if fg == "" {
		fg = DefaultForeground
	}
	if bg == "" {
		bg = DefaultBackground
	}
	c.foreground = fg
	c.background = bg
}

func (c *Cell) addDependent(name string) {
	name = normalizeName(name)
	if !slices.Contains(c.dependents, name) {
		c.dependents = append(c.dependents, name)
	}
}

func (c *Cell) removeDependent(name string) {
	name = normalizeName(name)
	c.dependents = slices.DeleteFunc(c.dependents, func(d string) bool { return d == name })
}

// CellInfo is a copy of everything a presentation or export layer needs
// to know about a cell.
type CellInfo struct {
	Name       string   `mapstructure:"name"`
	Position   Position `mapstructure:"index"`
	Formula    string   `mapstructure:"formula"`
	Value      string   `mapstructure:"value"`
	Foreground string   `mapstructure:"fg color"`
	Background string   `mapstructure:"bg color"`
}

// Info returns a snapshot of the cell.
func (c *Cell) Info() CellInfo {
	return CellInfo{
		Name:       c.name,
		Position:   c.pos,
		Formula:    c.formula,
		Value:      c.value,
		Foreground: c.foreground,
		Background: c.background,
	}
}
