package gridcalc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cellNamePattern is the full grammar of a cell name: column letters followed
// by a 1-based row number without leading zeros.
var cellNamePattern = regexp.MustCompile(`^[A-Za-z]+[1-9][0-9]*$`)

// cellTokenPattern finds cell references inside formula text.
var cellTokenPattern = regexp.MustCompile(`[A-Za-z]+[1-9][0-9]*`)

// Position locates a cell in the grid.
type Position struct {
	Row int `mapstructure:"row"` // 0-based row index
	Col int `mapstructure:"col"` // 1-based column number
}

// String formats the position as "(row, col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Name returns the display name of the position, e.g. (0, 1) → "A1".
// It returns "" for positions no grid can hold.
func (p Position) Name() string {
	name, err := CellName(p)
	if err != nil {
		return ""
	}
	return name
}

// ParseCellName parses a cell name like "A1" or "aa10" into its position.
// The split point is the first digit; letters are case-insensitive.
func ParseCellName(name string) (Position, error) {
	if !cellNamePattern.MatchString(name) {
		return Position{}, newError(KindCellLocation, "", "invalid cell name %q", name)
	}
	i := strings.IndexAny(name, "123456789")
	col, err := ColumnNumber(name[:i])
	if err != nil {
		return Position{}, newError(KindCellLocation, "", "invalid cell name %q: %v", name, err)
	}
	row, err := strconv.Atoi(name[i:])
	if err != nil {
		return Position{}, newError(KindCellLocation, "", "invalid row in cell name %q", name)
	}
	return Position{Row: row - 1, Col: col}, nil
}

// CellName formats a position as a display name.
func CellName(p Position) (string, error) {
	if p.Row < 0 {
		return "", fmt.Errorf("invalid row index %d", p.Row)
	}
	letters, err := ColumnLetters(p.Col)
	if err != nil {
		return "", err
	}
	return letters + strconv.Itoa(p.Row+1), nil
}

// ColumnLetters converts a 1-based column number to its letters using
// bijective base-26: 1→"A", 26→"Z", 27→"AA", 677→"ZA".
func ColumnLetters(col int) (string, error) {
	letters, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "", fmt.Errorf("column %d: %w", col, err)
	}
	return letters, nil
}

// ColumnNumber converts column letters to a 1-based column number.
// "A"→1, "Z"→26, "AA"→27
func ColumnNumber(letters string) (int, error) {
	// longer names overflow before excelize sees them; XFD is the widest column
	if letters == "" || len(letters) > 3 {
		return 0, fmt.Errorf("invalid column name %q", letters)
	}
	col, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0, fmt.Errorf("invalid column name %q: %w", letters, err)
	}
	return col, nil
}

// normalizeName upper-cases a cell name for use as a dependency key.
func normalizeName(name string) string {
	return strings.ToUpper(name)
}

// Range is a rectangle of cells. First is always the top-left corner and
// Last the bottom-right one.
type Range struct {
	First Position
	Last  Position
}

// NewRange builds the rectangle spanned by two corners given in any order.
func NewRange(a, b Position) Range {
	return Range{
		First: Position{Row: min(a.Row, b.Row), Col: min(a.Col, b.Col)},
		Last:  Position{Row: max(a.Row, b.Row), Col: max(a.Col, b.Col)},
	}
}

// ParseRange parses two corner names into a Range.
func ParseRange(start, stop string) (Range, error) {
	a, err := ParseCellName(start)
	if err != nil {
		return Range{}, err
	}
	b, err := ParseCellName(stop)
	if err != nil {
		return Range{}, err
	}
	return NewRange(a, b), nil
}

// String formats the range as "A1:C5".
func (r Range) String() string {
	return r.First.Name() + ":" + r.Last.Name()
}

// Size returns the dimensions of the range.
func (r Range) Size() Size {
	return Size{
		Width:  r.Last.Col - r.First.Col + 1,
		Height: r.Last.Row - r.First.Row + 1,
	}
}

// Contains returns true if p lies within the range.
func (r Range) Contains(p Position) bool {
	return p.Row >= r.First.Row && p.Row <= r.Last.Row &&
		p.Col >= r.First.Col && p.Col <= r.Last.Col
}

// Positions lists every position of the range in row-major order.
func (r Range) Positions() []Position {
	size := r.Size()
	out := make([]Position, 0, size.Width*size.Height)
	for row := r.First.Row; row <= r.Last.Row; row++ {
		for col := r.First.Col; col <= r.Last.Col; col++ {
			out = append(out, Position{Row: row, Col: col})
		}
	}
	return out
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// String formats the Size as "(WxH)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Width, s.Height)
}
