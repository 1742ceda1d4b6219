package gridcalc

import (
	"errors"
	"fmt"
)

// Kind classifies a spreadsheet failure. Every kind has a fixed display token
// that is committed to a cell in place of its value when evaluation fails.
type Kind uint8

const (
	KindGeneric             Kind = iota // #ERROR# - unclassified failure
	KindCircularReference               // #CIRCULAR#
	KindNonExistingFunction             // #NoSuchFunction#
	KindCellLocation                    // #NoCell#
	KindZeroDivision                    // #ZeroDiv#
	KindFormulaValue                    // #FuncValue#
	KindFunctionSyntax                  // #FuncSyntax#
	KindDepthLimit                      // #ERROR# - dependency chain too deep
)

// kindTokens maps each kind to the token shown in the cell.
var kindTokens = map[Kind]string{
	KindGeneric:             "#ERROR#",
	KindCircularReference:   "#CIRCULAR#",
	KindNonExistingFunction: "#NoSuchFunction#",
	KindCellLocation:        "#NoCell#",
	KindZeroDivision:        "#ZeroDiv#",
	KindFormulaValue:        "#FuncValue#",
	KindFunctionSyntax:      "#FuncSyntax#",
	KindDepthLimit:          "#ERROR#",
}

var kindNames = map[Kind]string{
	KindGeneric:             "spreadsheet error",
	KindCircularReference:   "circular reference",
	KindNonExistingFunction: "no such function",
	KindCellLocation:        "cell location error",
	KindZeroDivision:        "zero division",
	KindFormulaValue:        "formula value error",
	KindFunctionSyntax:      "function syntax error",
	KindDepthLimit:          "dependency depth limit exceeded",
}

// Token returns the fixed display token for the kind.
func (k Kind) Token() string {
	if tok, ok := kindTokens[k]; ok {
		return tok
	}
	return kindTokens[KindGeneric]
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is the single error type returned by the calculation core.
// Cell is the upper-case name of the cell being computed when the failure
// happened, if known.
type Error struct {
	Kind    Kind
	Cell    string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Cell != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Cell, msg, e.Kind.Token())
	}
	return fmt.Sprintf("%s (%s)", msg, e.Kind.Token())
}

// Is makes the package sentinels usable with errors.Is. A sentinel matches any
// *Error of its kind; ErrSpreadsheet matches every *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Cell != "" {
		return false
	}
	return t.Kind == KindGeneric || t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrSpreadsheet          = &Error{Kind: KindGeneric}
	ErrCircularReference    = &Error{Kind: KindCircularReference}
	ErrNonExistingFunction  = &Error{Kind: KindNonExistingFunction}
	ErrCellLocation         = &Error{Kind: KindCellLocation}
	ErrZeroDivision         = &Error{Kind: KindZeroDivision}
	ErrFormulaValue         = &Error{Kind: KindFormulaValue}
	ErrFunctionSyntax       = &Error{Kind: KindFunctionSyntax}
	ErrDependencyDepthLimit = &Error{Kind: KindDepthLimit}
)

func newError(kind Kind, cell, format string, args ...any) *Error {
	return &Error{Kind: kind, Cell: cell, Message: fmt.Sprintf(format, args...)}
}

// Token returns the display token for err: the kind token for errors raised
// by this package, "#ERROR#" for anything else, and "" for nil.
func Token(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Token()
	}
	return KindGeneric.Token()
}

// KindOf returns the kind of err, or KindGeneric if err was not raised by this
// package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// IsErrorToken reports whether value is one of the display tokens.
func IsErrorToken(value string) bool {
	for _, tok := range kindTokens {
		if tok == value {
			return true
		}
	}
	return false
}

// FormatError reports bulk-load records that are inconsistent with the names
// they carry. It is a caller-level problem and never committed to a cell.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return "invalid workbook format: " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }
