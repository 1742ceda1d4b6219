package gridcalc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Number formatting Tests ---

func TestNumber_String(t *testing.T) {
	cases := []struct {
		n    number
		want string
	}{
		{intNumber(42), "42"},
		{intNumber(-7), "-7"},
		{floatNumber(8), "8.0"},
		{floatNumber(2.5), "2.5"},
		{floatNumber(-0.5), "-0.5"},
		{floatNumber(0), "0.0"},
		{floatNumber(1e15), "1000000000000000.0"},
		{floatNumber(1e16), "1e+16"},
		{floatNumber(0.0001), "0.0001"},
		{floatNumber(0.00001), "1e-05"},
		{floatNumber(math.Inf(1)), "inf"},
		{floatNumber(math.Inf(-1)), "-inf"},
		{floatNumber(math.NaN()), "nan"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.n.String())
	}
}

// --- Coercion Tests ---

func TestCoerceNumber(t *testing.T) {
	n, ok := coerceNumber("15")
	require.True(t, ok)
	assert.Equal(t, intNumber(15), n)

	n, ok = coerceNumber(" -3 ")
	require.True(t, ok)
	assert.Equal(t, intNumber(-3), n)

	n, ok = coerceNumber("2.5")
	require.True(t, ok)
	assert.Equal(t, floatNumber(2.5), n)

	n, ok = coerceNumber("99999999999999999999")
	require.True(t, ok)
	assert.True(t, n.isFloat)

	for _, s := range []string{"", "abc", "1e3", "1.2.3", "+", "#ZeroDiv#"} {
		_, ok := coerceNumber(s)
		assert.False(t, ok, "value %q", s)
	}
}

func TestCoerceRangeNumber_AcceptsExponent(t *testing.T) {
	n, ok := coerceRangeNumber("1e3")
	require.True(t, ok)
	assert.Equal(t, floatNumber(1000), n)

	_, ok = coerceRangeNumber("text")
	assert.False(t, ok)
}

// --- Arithmetic Tests ---

func TestArithmetic_IntsStayInts(t *testing.T) {
	assert.Equal(t, intNumber(7), addNumbers(intNumber(3), intNumber(4)))
	assert.Equal(t, intNumber(-1), subNumbers(intNumber(3), intNumber(4)))
	assert.Equal(t, intNumber(12), mulNumbers(intNumber(3), intNumber(4)))
	assert.Equal(t, intNumber(-3), negNumber(intNumber(3)))
}

func TestArithmetic_FloatContaminates(t *testing.T) {
	assert.Equal(t, floatNumber(7), addNumbers(intNumber(3), floatNumber(4)))
	assert.Equal(t, floatNumber(1.5), mulNumbers(floatNumber(0.5), intNumber(3)))
}

func TestArithmetic_OverflowPromotes(t *testing.T) {
	sum := addNumbers(intNumber(math.MaxInt64), intNumber(1))
	assert.True(t, sum.isFloat)

	diff := subNumbers(intNumber(math.MinInt64), intNumber(1))
	assert.True(t, diff.isFloat)

	prod := mulNumbers(intNumber(math.MaxInt64), intNumber(2))
	assert.True(t, prod.isFloat)

	neg := negNumber(intNumber(math.MinInt64))
	assert.True(t, neg.isFloat)
}

func TestDivNumbers(t *testing.T) {
	q, err := divNumbers(intNumber(4), intNumber(2))
	require.NoError(t, err)
	assert.Equal(t, "2.0", q.String())

	_, err = divNumbers(intNumber(4), intNumber(0))
	assert.ErrorIs(t, err, errZeroDivision)

	_, err = divNumbers(intNumber(4), floatNumber(0))
	assert.ErrorIs(t, err, errZeroDivision)
}

func TestPowNumbers(t *testing.T) {
	r, err := powNumbers(intNumber(2), intNumber(10))
	require.NoError(t, err)
	assert.Equal(t, intNumber(1024), r)

	r, err = powNumbers(intNumber(2), intNumber(-1))
	require.NoError(t, err)
	assert.Equal(t, floatNumber(0.5), r)

	r, err = powNumbers(intNumber(2), intNumber(64))
	require.NoError(t, err)
	assert.True(t, r.isFloat)

	_, err = powNumbers(intNumber(0), intNumber(-1))
	assert.ErrorIs(t, err, errZeroDivision)

	_, err = powNumbers(intNumber(-8), floatNumber(0.5))
	assert.ErrorIs(t, err, errDomain)

	_, err = powNumbers(floatNumber(10), floatNumber(400))
	assert.ErrorIs(t, err, errOverflow)
}
