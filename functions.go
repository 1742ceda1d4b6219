package gridcalc

import (
	"fmt"
	"math"
	"sort"
)

// scalarFunc is a function callable from a formula on already-resolved
// numeric arguments.
type scalarFunc struct {
	name    string
	minArgs int
	maxArgs int // -1 = variadic
	fn      func(args []number) (number, error)
}

func (f scalarFunc) call(args []number) (number, error) {
	if len(args) < f.minArgs || (f.maxArgs >= 0 && len(args) > f.maxArgs) {
		return number{}, fmt.Errorf("%w: %s takes %s, got %d", errArity, f.name, f.arity(), len(args))
	}
	return f.fn(args)
}

func (f scalarFunc) arity() string {
	switch {
	case f.maxArgs < 0:
		return fmt.Sprintf("at least %d arguments", f.minArgs)
	case f.minArgs == f.maxArgs && f.minArgs == 1:
		return "exactly 1 argument"
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("exactly %d arguments", f.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", f.minArgs, f.maxArgs)
}

// scalarFunctions is the fixed registry of scalar functions.
var scalarFunctions = map[string]scalarFunc{
	"SQRT":    {name: "SQRT", minArgs: 1, maxArgs: 1, fn: sqrtFunc},
	"POWER":   {name: "POWER", minArgs: 2, maxArgs: 2, fn: powerFunc},
	"SUM":     {name: "SUM", minArgs: 2, maxArgs: -1, fn: sumFunc},
	"AVERAGE": {name: "AVERAGE", minArgs: 2, maxArgs: -1, fn: averageFunc},
}

func lookupScalar(name string) (scalarFunc, bool) {
	f, ok := scalarFunctions[name]
	return f, ok
}

// ScalarFunctionNames lists the scalar functions a formula may call.
func ScalarFunctionNames() []string {
	names := make([]string, 0, len(scalarFunctions))
	for name := range scalarFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sqrtFunc(args []number) (number, error) {
	x := args[0].float()
	if x < 0 {
		return number{}, fmt.Errorf("%w: SQRT of %s", errDomain, args[0])
	}
	return floatNumber(math.Sqrt(x)), nil
}

// powerFunc always computes in floating point, unlike the ** operator.
func powerFunc(args []number) (number, error) {
	base, exp := args[0].float(), args[1].float()
	if base == 0 && exp < 0 {
		return number{}, fmt.Errorf("%w: POWER of zero to a negative exponent", errDomain)
	}
	if base < 0 && exp != math.Trunc(exp) {
		return number{}, fmt.Errorf("%w: POWER of a negative base to a fractional exponent", errDomain)
	}
	r := math.Pow(base, exp)
	if math.IsInf(r, 0) && !math.IsInf(base, 0) {
		return number{}, fmt.Errorf("%w: POWER(%s, %s)", errOverflow, args[0], args[1])
	}
	return floatNumber(r), nil
}

func sumFunc(args []number) (number, error) {
	total := args[0]
	for _, a := range args[1:] {
		total = addNumbers(total, a)
	}
	return total, nil
}

func averageFunc(args []number) (number, error) {
	total, _ := sumFunc(args)
	return divNumbers(total, intNumber(int64(len(args))))
}
