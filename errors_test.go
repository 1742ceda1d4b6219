package gridcalc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Error taxonomy Tests ---

func TestKind_Tokens(t *testing.T) {
	cases := map[Kind]string{
		KindGeneric:             "#ERROR#",
		KindCircularReference:   "#CIRCULAR#",
		KindNonExistingFunction: "#NoSuchFunction#",
		KindCellLocation:        "#NoCell#",
		KindZeroDivision:        "#ZeroDiv#",
		KindFormulaValue:        "#FuncValue#",
		KindFunctionSyntax:      "#FuncSyntax#",
		KindDepthLimit:          "#ERROR#",
		Kind(200):               "#ERROR#",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Token(), "kind %v", kind)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "zero division", KindZeroDivision.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
}

func TestError_Message(t *testing.T) {
	err := newError(KindZeroDivision, "B1", "5 divided by A1")
	assert.Equal(t, "B1: 5 divided by A1 (#ZeroDiv#)", err.Error())

	err = &Error{Kind: KindCircularReference}
	assert.Equal(t, "circular reference (#CIRCULAR#)", err.Error())
}

func TestError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("update dependents of A1: %w", newError(KindFormulaValue, "A2", "bad"))

	assert.ErrorIs(t, err, ErrFormulaValue)
	assert.ErrorIs(t, err, ErrSpreadsheet)
	assert.NotErrorIs(t, err, ErrZeroDivision)
	assert.NotErrorIs(t, err, ErrCircularReference)

	// a concrete error is never a sentinel for another concrete error
	assert.False(t, errors.Is(newError(KindFormulaValue, "A1", "x"), newError(KindFormulaValue, "A1", "x")))
}

func TestToken(t *testing.T) {
	assert.Equal(t, "", Token(nil))
	assert.Equal(t, "#ERROR#", Token(errors.New("boom")))
	assert.Equal(t, "#CIRCULAR#", Token(fmt.Errorf("wrapped: %w", ErrCircularReference)))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindCellLocation, KindOf(fmt.Errorf("x: %w", newError(KindCellLocation, "", "y"))))
	assert.Equal(t, KindGeneric, KindOf(errors.New("plain")))
}

func TestIsErrorToken(t *testing.T) {
	for _, tok := range []string{"#ERROR#", "#CIRCULAR#", "#NoSuchFunction#", "#NoCell#", "#ZeroDiv#", "#FuncValue#", "#FuncSyntax#"} {
		assert.True(t, IsErrorToken(tok), tok)
	}
	assert.False(t, IsErrorToken("5"))
	assert.False(t, IsErrorToken(""))
	assert.False(t, IsErrorToken("#REF!"))
}

func TestFormatError_Unwrap(t *testing.T) {
	inner := errors.New("record 0 mismatch")
	err := fmt.Errorf("load: %w", &FormatError{Err: inner})

	var ferr *FormatError
	assert.ErrorAs(t, err, &ferr)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "invalid workbook format: record 0 mismatch", ferr.Error())
	assert.NotErrorIs(t, err, ErrSpreadsheet)
}
