// Package gridcalc is the calculation core of a spreadsheet: a grid of cells
// whose formulas reference each other, an evaluator for those formulas,
// and propagation of edits to every dependent cell.
package gridcalc

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Sheet owns the current grid and the one grid kept for undoing a reset.
// It is not safe for concurrent use.
type Sheet struct {
	opts *Options
	log  hclog.Logger
	grid *Grid
	prev *Grid
}

// NewSheet creates a sheet with a blank grid.
func NewSheet(opts ...Option) *Sheet {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	g, err := NewGrid(o.rows, o.cols)
	if err != nil {
		// WithSize keeps only sizes that pass checkSize
		panic(fmt.Sprintf("gridcalc: %v", err))
	}
	return &Sheet{opts: o, log: o.logger, grid: g}
}

// Rows returns the number of rows in the current grid.
func (s *Sheet) Rows() int { return s.grid.Rows() }

// Cols returns the number of columns in the current grid.
func (s *Sheet) Cols() int { return s.grid.Cols() }

// Grid returns the current grid.
func (s *Sheet) Grid() *Grid { return s.grid }

func (s *Sheet) evaluator() *evaluator {
	return newEvaluator(s.grid, s.opts.maxDepth, s.log)
}

// EditCell stores text as the formula of the named cell, evaluates it and
// propagates the new value to every dependent.
//
// A malformed or out-of-range name changes nothing. When evaluation fails the
// cell's formula and value both become the error token and the error is
// returned. When a dependent fails, the edited cell keeps its new value, the
// failing dependent holds the token and the error is returned.
func (s *Sheet) EditCell(name, text string) error {
	c, err := s.grid.CellAt(name)
	if err != nil {
		return err
	}
	c.formula = text

	ev := s.evaluator()
	value, refs, err := ev.run(text, c.name)
	if err != nil {
		tok := Token(err)
		c.formula = tok
		c.value = tok
		s.grid.setPrecedents(c, nil)
		s.log.Warn("edit failed", "cell", c.name, "formula", text, "error", err)
		return err
	}

	c.value = value
	s.grid.setPrecedents(c, refs)
	s.log.Debug("cell edited", "cell", c.name, "formula", text, "value", value)

	if err := ev.propagate(c); err != nil {
		return fmt.Errorf("update dependents of %s: %w", c.name, err)
	}
	return nil
}

// Value returns the computed display value of the named cell.
func (s *Sheet) Value(name string) (string, error) {
	c, err := s.grid.CellAt(name)
	if err != nil {
		return "", err
	}
	return c.value, nil
}

// Formula returns the raw text last stored in the named cell.
func (s *Sheet) Formula(name string) (string, error) {
	c, err := s.grid.CellAt(name)
	if err != nil {
		return "", err
	}
	return c.formula, nil
}

// CellInfo returns everything a presentation layer needs about a cell.
func (s *Sheet) CellInfo(name string) (CellInfo, error) {
	c, err := s.grid.CellAt(name)
	if err != nil {
		return CellInfo{}, err
	}
	return c.Info(), nil
}

// Dependents returns the names of the cells whose formulas reference the
// named cell, in registration order.
func (s *Sheet) Dependents(name string) ([]string, error) {
	c, err := s.grid.CellAt(name)
	if err != nil {
		return nil, err
	}
	return c.Dependents(), nil
}

// SetCellStyle changes a cell's colors. A nil color is left as is; an empty
// one restores the default.
func (s *Sheet) SetCellStyle(name string, fg, bg *string) error {
	c, err := s.grid.CellAt(name)
	if err != nil {
		return err
	}
	nextFg, nextBg := c.foreground, c.background
	if fg != nil {
		nextFg = *fg
	}
	if bg != nil {
		nextBg = *bg
	}
	c.setStyle(nextFg, nextBg)
	return nil
}

// Snapshot returns the non-empty cells in row-major order.
func (s *Sheet) Snapshot() []CellInfo {
	var out []CellInfo
	s.grid.each(func(c *Cell) {
		if !c.IsEmpty() {
			out = append(out, c.Info())
		}
	})
	return out
}

// Reset replaces the grid with a blank one of the given size. The replaced
// grid is kept for UndoReset. An invalid size changes nothing.
func (s *Sheet) Reset(rows, cols int) error {
	g, err := NewGrid(rows, cols)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.prev = s.grid
	s.grid = g
	s.log.Debug("grid reset", "rows", rows, "cols", cols)
	return nil
}

// UndoReset restores the grid replaced by the last Reset. It does nothing if
// there has been no reset.
func (s *Sheet) UndoReset() {
	if s.prev == nil {
		return
	}
	s.grid = s.prev
	s.log.Debug("reset undone", "rows", s.grid.rows, "cols", s.grid.cols)
}
