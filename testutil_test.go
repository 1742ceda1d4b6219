package gridcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSheet creates a default-size sheet and applies edits in order.
// Each edit is a name/text pair and must succeed.
func newTestSheet(t *testing.T, edits ...string) *Sheet {
	t.Helper()
	require.Zero(t, len(edits)%2, "edits must be name/text pairs")
	s := NewSheet()
	for i := 0; i < len(edits); i += 2 {
		require.NoError(t, s.EditCell(edits[i], edits[i+1]), "edit %s=%q", edits[i], edits[i+1])
	}
	return s
}

// initializedSheet is the four-cell fixture most tests build on:
//
//	A1: 5          B1: 7
//	A2: =A1 + 10   B2: =A2 * B1
func initializedSheet(t *testing.T) *Sheet {
	t.Helper()
	return newTestSheet(t,
		"A1", "5",
		"A2", "=A1 + 10",
		"B1", "7",
		"B2", "=A2 * B1",
	)
}

// assertValue checks the computed value of a cell.
func assertValue(t *testing.T, s *Sheet, name, want string) {
	t.Helper()
	got, err := s.Value(name)
	require.NoError(t, err)
	assert.Equal(t, want, got, "value of %s", name)
}
