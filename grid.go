package gridcalc

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// Grid is a rows×cols arena of cells. Cells are addressed by integer index
// row*cols + (col-1); names are translated at the boundary.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// checkSize reports why no grid can have the given size. Columns are limited
// to excelize.MaxColumns so every column has a name.
func checkSize(rows, cols int) error {
	if rows < 1 {
		return fmt.Errorf("grid must have at least 1 row, got %d", rows)
	}
	if cols < 1 || cols > excelize.MaxColumns {
		return fmt.Errorf("grid columns must be between 1 and %d, got %d", excelize.MaxColumns, cols)
	}
	return nil
}

// NewGrid allocates a blank grid.
func NewGrid(rows, cols int) (*Grid, error) {
	if err := checkSize(rows, cols); err != nil {
		return nil, err
	}
	letters := make([]string, cols+1)
	for col := 1; col <= cols; col++ {
		name, err := ColumnLetters(col)
		if err != nil {
			return nil, err
		}
		letters[col] = name
	}

	g := &Grid{rows: rows, cols: cols, cells: make([]Cell, 0, rows*cols)}
	for row := 0; row < rows; row++ {
		for col := 1; col <= cols; col++ {
			pos := Position{Row: row, Col: col}
			g.cells = append(g.cells, newCell(pos, fmt.Sprintf("%s%d", letters[col], row+1)))
		}
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{Width: g.cols, Height: g.rows} }

// Contains reports whether p lies inside the grid.
func (g *Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 1 && p.Col <= g.cols
}

// CellAt returns the cell with the given name. It fails with a
// CellLocationError if the name is malformed or outside the grid.
func (g *Grid) CellAt(name string) (*Cell, error) {
	pos, err := ParseCellName(name)
	if err != nil {
		return nil, err
	}
	cell, ok := g.cellAt(pos)
	if !ok {
		return nil, newError(KindCellLocation, "", "cell %s does not exist in a %dx%d grid",
			normalizeName(name), g.rows, g.cols)
	}
	return cell, nil
}

func (g *Grid) cellAt(p Position) (*Cell, bool) {
	if !g.Contains(p) {
		return nil, false
	}
	return &g.cells[p.Row*g.cols+p.Col-1], true
}

// cellsIn returns the cells of a range, failing if a corner is outside the grid.
func (g *Grid) cellsIn(r Range) ([]*Cell, error) {
	if !g.Contains(r.First) || !g.Contains(r.Last) {
		return nil, newError(KindCellLocation, "", "range %s is outside a %dx%d grid", r, g.rows, g.cols)
	}
	out := make([]*Cell, 0, r.Size().Width*r.Size().Height)
	for _, p := range r.Positions() {
		c, _ := g.cellAt(p)
		out = append(out, c)
	}
	return out, nil
}

// each calls fn for every cell in row-major order.
func (g *Grid) each(fn func(*Cell)) {
	for i := range g.cells {
		fn(&g.cells[i])
	}
}

// setPrecedents replaces the precedents of c and rebuilds the affected
// entries of the reverse (dependents) index.
func (g *Grid) setPrecedents(c *Cell, refs []string) {
	next := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = normalizeName(ref)
		if !slices.Contains(next, ref) {
			next = append(next, ref)
		}
	}
	for _, old := range c.precedents {
		if slices.Contains(next, old) {
			continue
		}
		if p, err := g.CellAt(old); err == nil {
			p.removeDependent(c.name)
		}
	}
	for _, ref := range next {
		if p, err := g.CellAt(ref); err == nil {
			p.addDependent(c.name)
		}
	}
	c.precedents = next
}
