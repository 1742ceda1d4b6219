package gridcalc

import (
	"math"
	"strconv"
	"strings"
)

// number is a formula operand. Integers stay integers through + - * and
// non-negative integer powers; anything else becomes a float. Division always
// yields a float.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func intNumber(i int64) number     { return number{i: i} }
func floatNumber(f float64) number { return number{f: f, isFloat: true} }

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n number) isZero() bool {
	if n.isFloat {
		return n.f == 0
	}
	return n.i == 0
}

// String renders integers plainly and floats in shortest round-trip form with
// a mandatory fractional part: 8 → "8", 8.0 → "8.0", 1e16 → "1e+16".
func (n number) String() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp := 0
	if i := strings.IndexByte(sci, 'e'); i >= 0 {
		exp, _ = strconv.Atoi(sci[i+1:])
	}
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// coerceNumber converts a resolved cell value to a number: text with a
// decimal point is a float, anything else must be an integer.
func coerceNumber(s string) (number, bool) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return number{}, false
		}
		return floatNumber(f), true
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return intNumber(i), true
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr == nil {
			return floatNumber(f), true
		}
	}
	return number{}, false
}

// coerceRangeNumber is the looser conversion used for range members, which
// also accepts exponent notation.
func coerceRangeNumber(s string) (number, bool) {
	if n, ok := coerceNumber(s); ok {
		return n, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return number{}, false
	}
	return floatNumber(f), true
}

func addNumbers(a, b number) number {
	if a.isFloat || b.isFloat {
		return floatNumber(a.float() + b.float())
	}
	c := a.i + b.i
	if (c > a.i) != (b.i > 0) {
		return floatNumber(a.float() + b.float())
	}
	return intNumber(c)
}

func subNumbers(a, b number) number {
	if a.isFloat || b.isFloat {
		return floatNumber(a.float() - b.float())
	}
	c := a.i - b.i
	if (c < a.i) != (b.i > 0) {
		return floatNumber(a.float() - b.float())
	}
	return intNumber(c)
}

func mulNumbers(a, b number) number {
	if a.isFloat || b.isFloat {
		return floatNumber(a.float() * b.float())
	}
	if a.i == 0 || b.i == 0 {
		return intNumber(0)
	}
	c := a.i * b.i
	if c/b.i != a.i || (a.i == -1 && b.i == math.MinInt64) || (b.i == -1 && a.i == math.MinInt64) {
		return floatNumber(a.float() * b.float())
	}
	return intNumber(c)
}

func divNumbers(a, b number) (number, error) {
	if b.isZero() {
		return number{}, errZeroDivision
	}
	return floatNumber(a.float() / b.float()), nil
}

func negNumber(a number) number {
	if a.isFloat {
		return floatNumber(-a.f)
	}
	if a.i == math.MinInt64 {
		return floatNumber(-a.float())
	}
	return intNumber(-a.i)
}

// powNumbers implements the ** operator.
func powNumbers(base, exp number) (number, error) {
	if base.isZero() && exp.float() < 0 {
		return number{}, errZeroDivision
	}
	if !base.isFloat && !exp.isFloat && exp.i >= 0 {
		if r, ok := intPow(base.i, exp.i); ok {
			return intNumber(r), nil
		}
	}
	if base.float() < 0 && exp.float() != math.Trunc(exp.float()) {
		return number{}, errDomain
	}
	r := math.Pow(base.float(), exp.float())
	if math.IsInf(r, 0) && !math.IsInf(base.float(), 0) {
		return number{}, errOverflow
	}
	return floatNumber(r), nil
}

// intPow computes b**e by squaring, reporting false on int64 overflow.
func intPow(b, e int64) (int64, bool) {
	result := int64(1)
	for e > 0 {
		if e&1 == 1 {
			r := result * b
			if b != 0 && r/b != result {
				return 0, false
			}
			result = r
		}
		e >>= 1
		if e > 0 {
			sq := b * b
			if b != 0 && sq/b != b {
				return 0, false
			}
			b = sq
		}
	}
	return result, true
}
