package gridcalc

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
)

// Record is one saved cell. Value is informational; it is recomputed when the
// record is loaded.
type Record struct {
	Name       string    `mapstructure:"name"`
	Position   *Position `mapstructure:"index"`
	Formula    string    `mapstructure:"formula"`
	Value      string    `mapstructure:"value"`
	Foreground string    `mapstructure:"fg color"`
	Background string    `mapstructure:"bg color"`
}

// Workbook is a whole saved sheet.
type Workbook struct {
	Rows  int      `mapstructure:"rows"`
	Cols  int      `mapstructure:"cols"`
	Cells []Record `mapstructure:"cells"`
}

var positionType = reflect.TypeOf(Position{})

// positionHook decodes the saved [row, col] pair into a Position.
func positionHook(from, to reflect.Type, data any) (any, error) {
	if to != positionType || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
		return data, nil
	}
	var pair []int
	if err := mapstructure.WeakDecode(data, &pair); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	if len(pair) != 2 {
		return nil, fmt.Errorf("index must be [row, col], got %d values", len(pair))
	}
	return Position{Row: pair[0], Col: pair[1]}, nil
}

// DecodeWorkbook converts a generic document, as produced by a JSON or YAML
// decoder, into a Workbook.
func DecodeWorkbook(raw any) (Workbook, error) {
	var book Workbook
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(positionHook),
		WeaklyTypedInput: true,
		Result:           &book,
	})
	if err != nil {
		return Workbook{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Workbook{}, &FormatError{Err: err}
	}
	return book, nil
}

// Load replaces the grid with the workbook's contents. Every record is
// checked before anything is evaluated. On any failure the previous grid is
// restored.
func (s *Sheet) Load(book Workbook) error {
	if err := s.Reset(book.Rows, book.Cols); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := s.checkRecords(book.Cells); err != nil {
		s.UndoReset()
		return err
	}
	for _, rec := range book.Cells {
		c, _ := s.grid.CellAt(rec.Name)
		c.setStyle(rec.Foreground, rec.Background)
		if err := s.EditCell(rec.Name, rec.Formula); err != nil {
			s.UndoReset()
			return fmt.Errorf("load %s: %w", normalizeName(rec.Name), err)
		}
	}
	s.log.Debug("workbook loaded", "rows", book.Rows, "cols", book.Cols, "cells", len(book.Cells))
	return nil
}

// checkRecords fails on the first name that does not address the grid and
// collects every record whose index disagrees with its name.
func (s *Sheet) checkRecords(records []Record) error {
	var merr *multierror.Error
	for i, rec := range records {
		c, err := s.grid.CellAt(rec.Name)
		if err != nil {
			return fmt.Errorf("load record %d: %w", i, err)
		}
		if rec.Position != nil && *rec.Position != c.pos {
			merr = multierror.Append(merr, fmt.Errorf("record %d: %s is at %s, index says %s",
				i, c.name, c.pos, *rec.Position))
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return &FormatError{Err: err}
	}
	return nil
}
