package gridcalc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_InitializedSheet(t *testing.T) {
	s := initializedSheet(t)
	fg := "blue"
	require.NoError(t, s.SetCellStyle("A1", &fg, nil))

	output := s.Describe()
	assert.Contains(t, output, "Sheet: 50 rows x 26 cols (26x50)")
	assert.Contains(t, output, "Cells:")
	assert.Contains(t, output, `    A1 "5" fg=blue bg=white [deps: A2]`)
	assert.Contains(t, output, `    A2 =A1 + 10 -> "15" [deps: B2]`)
	assert.Contains(t, output, `    B1 "7" [deps: B2]`)
	assert.Contains(t, output, `    B2 =A2 * B1 -> "105"`)
	assert.NotContains(t, output, "(empty)")
}

func TestDescribe_RowMajorOrder(t *testing.T) {
	s := initializedSheet(t)
	output := s.Describe()

	a1 := strings.Index(output, "    A1 ")
	b1 := strings.Index(output, "    B1 ")
	a2 := strings.Index(output, "    A2 ")
	assert.Less(t, a1, b1)
	assert.Less(t, b1, a2)
}

func TestDescribe_ErrorCell(t *testing.T) {
	s := NewSheet(WithSize(2, 2))
	_ = s.EditCell("A1", "=1/0")
	assert.Contains(t, s.Describe(), `    A1 "#ZeroDiv#"`)
}

func TestDescribe_Empty(t *testing.T) {
	s := NewSheet(WithSize(2, 3))
	output := s.Describe()
	assert.Equal(t, "Sheet: 2 rows x 3 cols (3x2)\n  (empty)\n", output)
}
