package gridcalc

import (
	"errors"
	"slices"
	"strings"
	"unicode"

	"github.com/hashicorp/go-hclog"
)

// FormulaPrefix marks a cell's text as a formula.
const FormulaPrefix = "="

// evaluator resolves formulas against one grid for the duration of a single
// top-level operation. It is the only writer of that grid while it runs.
type evaluator struct {
	grid     *Grid
	maxDepth int
	log      hclog.Logger

	// refs collects the direct references of the formula being run; nil
	// while propagating.
	refs []string

	// memo holds the cells already resolved for the current target.
	memo map[string]string
}

func newEvaluator(g *Grid, maxDepth int, log hclog.Logger) *evaluator {
	return &evaluator{grid: g, maxDepth: maxDepth, log: log}
}

// IsFormula reports whether text is a formula: "=" followed by at least one
// more character.
func IsFormula(text string) bool {
	return len(text) > len(FormulaPrefix) && strings.HasPrefix(text, FormulaPrefix)
}

// normalizeFormula upper-cases the text, drops the prefix and strips all
// whitespace.
func normalizeFormula(expression string) string {
	body := strings.ToUpper(strings.TrimPrefix(expression, FormulaPrefix))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, body)
}

// run evaluates expression as the formula of target and returns the display
// value together with the cells the formula references directly.
func (e *evaluator) run(expression, target string) (string, []string, error) {
	e.refs = []string{}
	defer func() { e.refs = nil }()

	value, err := e.evaluateTarget(expression, normalizeName(target))
	if err != nil {
		return "", nil, err
	}
	return value, e.refs, nil
}

// evaluateTarget evaluates expression as the formula of target. Cells reached
// more than once along the way are computed once.
func (e *evaluator) evaluateTarget(expression, target string) (string, error) {
	e.memo = map[string]string{}
	defer func() { e.memo = nil }()
	return e.evaluate(expression, target, 0)
}

// resolve evaluates the formula of c on behalf of target. Only successful
// results are kept: a failure aborts the whole evaluation anyway.
func (e *evaluator) resolve(c *Cell, target string, depth int) (string, error) {
	if value, ok := e.memo[c.name]; ok {
		return value, nil
	}
	value, err := e.evaluate(c.formula, target, depth+1)
	if err != nil {
		return "", err
	}
	if e.memo != nil {
		e.memo[c.name] = value
	}
	return value, nil
}

// evaluate resolves expression on behalf of target. target is threaded
// through every recursive call so a reference back to it is caught at any
// depth.
func (e *evaluator) evaluate(expression, target string, depth int) (string, error) {
	if !IsFormula(expression) {
		return expression, nil
	}
	if depth > e.maxDepth {
		return "", newError(KindDepthLimit, target, "reference chain deeper than %d cells", e.maxDepth)
	}

	text, err := e.expandRangeCalls(normalizeFormula(expression), target, depth)
	if err != nil {
		return "", err
	}

	tokens := cellTokenPattern.FindAllString(text, -1)
	if slices.Contains(tokens, target) {
		return "", newError(KindCircularReference, target, "%s references itself", target)
	}

	resolved := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		cell, err := e.grid.CellAt(tok)
		if err != nil {
			return "", withCell(err, target)
		}
		if _, ok := resolved[tok]; !ok {
			value, err := e.resolve(cell, target, depth)
			if err != nil {
				return "", err
			}
			resolved[tok] = value
		}
		e.reference(depth, tok)
	}

	if len(tokens) == 0 {
		return e.compute(text, &env{}, target, false)
	}

	for tok, value := range resolved {
		if value == "" {
			resolved[tok] = "0"
		}
	}

	// a lone reference passes its value through untouched, text included
	if len(tokens) == 1 && strings.TrimSpace(strings.ReplaceAll(text, tokens[0], "")) == "" {
		return resolved[tokens[0]], nil
	}

	vars := &env{values: make(map[string]number, len(tokens)), opaque: map[string]bool{}}
	for _, tok := range tokens {
		value := resolved[tok]
		if n, ok := coerceNumber(value); ok {
			vars.values[tok] = n
			continue
		}
		if strings.Contains("+-/*", value) {
			vars.opaque[tok] = true
			continue
		}
		return "", newError(KindFormulaValue, target, "%s holds %q, which is not a number", tok, value)
	}
	return e.compute(text, vars, target, true)
}

// compute parses and evaluates arithmetic text whose references are already
// resolved in vars.
func (e *evaluator) compute(text string, vars *env, target string, hasTokens bool) (string, error) {
	tree, err := parseExpression(text)
	if err == nil {
		var n number
		if n, err = tree.eval(vars); err == nil {
			return n.String(), nil
		}
	}

	switch {
	case errors.Is(err, errZeroDivision):
		return "", newError(KindZeroDivision, target, "%v", err)
	case errors.Is(err, errUnknownName):
		return "", newError(KindNonExistingFunction, target, "%v", err)
	case errors.Is(err, errArity), hasTokens:
		return "", newError(KindFunctionSyntax, target, "%v", err)
	}
	return "", newError(KindFormulaValue, target, "%v", err)
}

// reference records name as a direct reference of the formula being run.
func (e *evaluator) reference(depth int, name string) {
	if depth != 0 || e.refs == nil {
		return
	}
	if !slices.Contains(e.refs, name) {
		e.refs = append(e.refs, name)
	}
}

// withCell attaches the cell being computed to an error that lacks one.
func withCell(err error, cell string) error {
	var e *Error
	if errors.As(err, &e) && e.Cell == "" {
		return &Error{Kind: e.Kind, Cell: cell, Message: e.Message}
	}
	return err
}
