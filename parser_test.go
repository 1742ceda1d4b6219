package gridcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalText parses and evaluates text against an environment of resolved
// cell values.
func evalText(t *testing.T, text string, values map[string]number) (number, error) {
	t.Helper()
	tree, err := parseExpression(text)
	if err != nil {
		return number{}, err
	}
	return tree.eval(&env{values: values})
}

// --- Lexer Tests ---

func TestTokenize_Kinds(t *testing.T) {
	tokens, err := tokenize("SUM(A1, 2.5)**-.5/3")
	require.NoError(t, err)

	var kinds []tokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.kind)
	}
	assert.Equal(t, []tokenKind{
		tokName, tokLParen, tokName, tokComma, tokNumber, tokRParen,
		tokPower, tokMinus, tokNumber, tokSlash, tokNumber, tokEOF,
	}, kinds)
	assert.Equal(t, ".5", tokens[8].text)
}

func TestTokenize_Exponent(t *testing.T) {
	cases := map[string][]string{
		"1E+20*2": {"1E+20", "*", "2", ""},
		"5e-06":   {"5e-06", ""},
		"2.5E+3":  {"2.5E+3", ""},
		"2E1":     {"2", "E1", ""},
		"2E":      {"2", "E", ""},
		"2E+":     {"2", "E", "+", ""},
	}
	for text, want := range cases {
		tokens, err := tokenize(text)
		require.NoError(t, err, text)
		var got []string
		for _, tok := range tokens {
			got = append(got, tok.text)
		}
		assert.Equal(t, want, got, text)
	}
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	_, err := tokenize("1 $ 2")
	assert.ErrorIs(t, err, errSyntax)
}

// --- Parser Tests ---

func TestParseExpression_Precedence(t *testing.T) {
	cases := map[string]string{
		"1+2*3":    "(1+(2*3))",
		"(1+2)*3":  "((1+2)*3)",
		"1-2-3":    "((1-2)-3)",
		"2**3**2":  "(2**(3**2))",
		"-2**2":    "-(2**2)",
		"2**-1":    "(2**-1)",
		"SUM(1,2)": "SUM(1,2)",
		"A1/B2":    "(A1/B2)",
	}
	for text, want := range cases {
		tree, err := parseExpression(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, tree.String(), text)
	}
}

func TestParseExpression_Errors(t *testing.T) {
	for _, text := range []string{"", "1+", "(1", "1 2", "SUM(1,", "SUM(1;2)", ")", "007", "1..2"} {
		_, err := parseExpression(text)
		assert.ErrorIs(t, err, errSyntax, "text %q", text)
	}
}

func TestParseNumberLiteral(t *testing.T) {
	n, err := parseNumberLiteral("12")
	require.NoError(t, err)
	assert.Equal(t, intNumber(12), n)

	n, err = parseNumberLiteral("5.")
	require.NoError(t, err)
	assert.Equal(t, floatNumber(5), n)

	n, err = parseNumberLiteral("000")
	require.NoError(t, err)
	assert.Equal(t, intNumber(0), n)

	n, err = parseNumberLiteral("1e+20")
	require.NoError(t, err)
	assert.Equal(t, floatNumber(1e20), n)

	n, err = parseNumberLiteral("5E-06")
	require.NoError(t, err)
	assert.Equal(t, floatNumber(5e-06), n)

	_, err = parseNumberLiteral("012")
	assert.ErrorIs(t, err, errSyntax)
}

// --- Evaluation Tests ---

func TestEval_ExponentLiterals(t *testing.T) {
	n, err := evalText(t, "1e+20*2", nil)
	require.NoError(t, err)
	assert.Equal(t, "2e+20", n.String())

	n, err = evalText(t, "5e-06+1", nil)
	require.NoError(t, err)
	assert.Equal(t, "1.000005", n.String())
}

func TestEval_Arithmetic(t *testing.T) {
	cases := map[string]string{
		"1+2*3":        "7",
		"7/2":          "3.5",
		"4/2":          "2.0",
		"2**3**2":      "512",
		"-2**2":        "-4",
		"2**-1":        "0.5",
		"--3":          "3",
		"1.5+1.5":      "3.0",
		"SUM(1,2,3.0)": "6.0",
	}
	for text, want := range cases {
		n, err := evalText(t, text, nil)
		require.NoError(t, err, text)
		assert.Equal(t, want, n.String(), text)
	}
}

func TestEval_References(t *testing.T) {
	n, err := evalText(t, "A1*B1+1", map[string]number{"A1": intNumber(3), "B1": intNumber(4)})
	require.NoError(t, err)
	assert.Equal(t, "13", n.String())
}

func TestEval_Failures(t *testing.T) {
	_, err := evalText(t, "1/0", nil)
	assert.ErrorIs(t, err, errZeroDivision)

	_, err = evalText(t, "FOO(1)", nil)
	assert.ErrorIs(t, err, errUnknownName)

	_, err = evalText(t, "X+1", nil)
	assert.ErrorIs(t, err, errUnknownName)

	_, err = evalText(t, "SUM+1", nil)
	assert.ErrorIs(t, err, errOperand)

	_, err = evalText(t, "SUM(1)", nil)
	assert.ErrorIs(t, err, errArity)

	_, err = evalText(t, "A1(2)", map[string]number{"A1": intNumber(1)})
	assert.ErrorIs(t, err, errOperand)
}

func TestEval_OpaqueOperand(t *testing.T) {
	tree, err := parseExpression("A1+B1")
	require.NoError(t, err)
	_, err = tree.eval(&env{values: map[string]number{"B1": intNumber(1)}, opaque: map[string]bool{"A1": true}})
	assert.ErrorIs(t, err, errOperand)
}
