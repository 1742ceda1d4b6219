package gridcalc

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// rangeCallPattern finds range-function names in normalized formula text.
var rangeCallPattern = regexp.MustCompile(`\b(SUM_BY_RANGE|AVERAGE_BY_RANGE|COUNTNUMS|COUNTIF)\b`)

// rangeFunc computes a range function from the values of the cells in its
// rectangle. condition is only used by COUNTIF.
type rangeFunc func(values []string, condition string, target string) (string, error)

var rangeFunctions = map[string]rangeFunc{
	"SUM_BY_RANGE":     sumByRange,
	"AVERAGE_BY_RANGE": averageByRange,
	"COUNTNUMS":        countNums,
	"COUNTIF":          countIf,
}

// RangeFunctionNames lists the functions that take a start and stop cell.
func RangeFunctionNames() []string {
	names := make([]string, 0, len(rangeFunctions))
	for name := range rangeFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expandRangeCalls replaces every range-function call in text with its
// computed value, so only scalar arithmetic is left for the parser.
func (e *evaluator) expandRangeCalls(text, target string, depth int) (string, error) {
	var b strings.Builder
	rest := text
	for {
		loc := rangeCallPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String(), nil
		}
		name := rest[loc[2]:loc[3]]
		b.WriteString(rest[:loc[0]])

		after := rest[loc[1]:]
		end := matchingParen(after)
		if end < 0 {
			return "", newError(KindFunctionSyntax, target, "%s must be called as %s", name, rangeUsage(name))
		}
		result, err := e.callRange(name, splitArgs(after[1:end]), target, depth)
		if err != nil {
			return "", err
		}
		b.WriteString(result)
		rest = after[end+1:]
	}
}

func (e *evaluator) callRange(name string, args []string, target string, depth int) (string, error) {
	var condition string
	switch {
	case name == "COUNTIF" && len(args) >= 3:
		condition = strings.Join(args[2:], ",")
	case name != "COUNTIF" && len(args) == 2:
	default:
		return "", newError(KindFunctionSyntax, target, "%s must be called as %s", name, rangeUsage(name))
	}
	if !cellNamePattern.MatchString(args[0]) || !cellNamePattern.MatchString(args[1]) {
		return "", newError(KindFunctionSyntax, target, "%s must be called as %s", name, rangeUsage(name))
	}

	r, err := ParseRange(args[0], args[1])
	if err != nil {
		return "", withCell(err, target)
	}
	cells, err := e.grid.cellsIn(r)
	if err != nil {
		return "", withCell(err, target)
	}
	if pos, err := ParseCellName(target); err == nil && r.Contains(pos) {
		return "", newError(KindCircularReference, target, "%s lies inside %s(%s)", target, name, r)
	}

	values := make([]string, 0, len(cells))
	for _, c := range cells {
		v, err := e.resolve(c, target, depth)
		if err != nil {
			return "", err
		}
		// COUNTIF compares empty cells as empty; everything else sees 0
		if v == "" && name != "COUNTIF" {
			v = "0"
		}
		values = append(values, v)
		e.reference(depth, c.name)
	}

	if name == "COUNTIF" {
		if condition, err = e.resolveCondition(condition, target, depth); err != nil {
			return "", err
		}
	}
	return rangeFunctions[name](values, condition, target)
}

// resolveCondition turns a COUNTIF condition into the value cells are
// compared with. A single cell reference stands for that cell's value.
func (e *evaluator) resolveCondition(condition, target string, depth int) (string, error) {
	refs := cellTokenPattern.FindAllString(condition, -1)
	switch len(refs) {
	case 0:
		return condition, nil
	case 1:
	default:
		return "", newError(KindFunctionSyntax, target,
			"COUNTIF condition can be one cell name or a value, got %q", condition)
	}
	if refs[0] == target {
		return "", newError(KindCircularReference, target, "%s is its own COUNTIF condition", target)
	}
	cell, err := e.grid.CellAt(refs[0])
	if err != nil {
		return "", withCell(err, target)
	}
	value, err := e.resolve(cell, target, depth)
	if err != nil {
		return "", err
	}
	e.reference(depth, cell.name)
	return value, nil
}

func sumByRange(values []string, _ string, target string) (string, error) {
	total, err := rangeTotal(values, "SUM_BY_RANGE", target)
	if err != nil {
		return "", err
	}
	return total.String(), nil
}

func averageByRange(values []string, _ string, target string) (string, error) {
	total, err := rangeTotal(values, "AVERAGE_BY_RANGE", target)
	if err != nil {
		return "", err
	}
	avg, err := divNumbers(total, intNumber(int64(len(values))))
	if err != nil {
		return "", newError(KindZeroDivision, target, "AVERAGE_BY_RANGE over an empty range")
	}
	return avg.String(), nil
}

func rangeTotal(values []string, name, target string) (number, error) {
	total := intNumber(0)
	for _, v := range values {
		n, ok := coerceRangeNumber(v)
		if !ok {
			return number{}, newError(KindFormulaValue, target, "%s over non-numeric value %q", name, v)
		}
		total = addNumbers(total, n)
	}
	return total, nil
}

// countNums counts values made only of decimal digits.
func countNums(values []string, _ string, _ string) (string, error) {
	count := 0
	for _, v := range values {
		if isDigits(v) {
			count++
		}
	}
	return strconv.Itoa(count), nil
}

func countIf(values []string, condition string, _ string) (string, error) {
	count := 0
	for _, v := range values {
		if v == condition {
			count++
		}
	}
	return strconv.Itoa(count), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// matchingParen returns the index of the ')' closing the '(' at s[0], or -1.
func matchingParen(s string) int {
	if !strings.HasPrefix(s, "(") {
		return -1
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits an argument list on commas outside nested parentheses.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}

func rangeUsage(name string) string {
	if name == "COUNTIF" {
		return "COUNTIF(start, stop, condition)"
	}
	return name + "(start, stop)"
}
