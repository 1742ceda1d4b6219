package gridcalc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Failures raised while parsing or computing an expression. The evaluator
// maps them onto the public error kinds.
var (
	errSyntax       = errors.New("invalid syntax")
	errUnknownName  = errors.New("unknown name")
	errZeroDivision = errors.New("division by zero")
	errArity        = errors.New("wrong number of arguments")
	errDomain       = errors.New("math domain error")
	errOverflow     = errors.New("numerical result out of range")
	errOperand      = errors.New("unsupported operand")
)

// env holds the resolved cell values an expression may reference. Names in
// opaque resolved to operator text and cannot take part in arithmetic.
type env struct {
	values map[string]number
	opaque map[string]bool
}

// node is an expression tree node.
type node interface {
	eval(e *env) (number, error)
	String() string
}

type numberNode struct {
	value number
}

func (n *numberNode) eval(*env) (number, error) { return n.value, nil }
func (n *numberNode) String() string            { return n.value.String() }

type refNode struct {
	name string
}

func (n *refNode) eval(e *env) (number, error) {
	if v, ok := e.values[n.name]; ok {
		return v, nil
	}
	if e.opaque[n.name] {
		return number{}, fmt.Errorf("%w: %s holds operator text", errOperand, n.name)
	}
	if _, ok := lookupScalar(n.name); ok {
		return number{}, fmt.Errorf("%w: function %s used as a value", errOperand, n.name)
	}
	return number{}, fmt.Errorf("%w: %s", errUnknownName, n.name)
}

func (n *refNode) String() string { return n.name }

type callNode struct {
	name string
	args []node
}

func (n *callNode) eval(e *env) (number, error) {
	if _, ok := e.values[n.name]; ok || e.opaque[n.name] {
		return number{}, fmt.Errorf("%w: %s is not callable", errOperand, n.name)
	}
	fn, ok := lookupScalar(n.name)
	if !ok {
		return number{}, fmt.Errorf("%w: function %s", errUnknownName, n.name)
	}
	args := make([]number, 0, len(n.args))
	for _, a := range n.args {
		v, err := a.eval(e)
		if err != nil {
			return number{}, err
		}
		args = append(args, v)
	}
	return fn.call(args)
}

func (n *callNode) String() string {
	parts := make([]string, len(n.args))
	for i, a := range n.args {
		parts[i] = a.String()
	}
	return n.name + "(" + strings.Join(parts, ",") + ")"
}

type unaryNode struct {
	op      tokenKind
	operand node
}

func (n *unaryNode) eval(e *env) (number, error) {
	v, err := n.operand.eval(e)
	if err != nil {
		return number{}, err
	}
	if n.op == tokMinus {
		return negNumber(v), nil
	}
	return v, nil
}

func (n *unaryNode) String() string {
	sign := "+"
	if n.op == tokMinus {
		sign = "-"
	}
	return sign + n.operand.String()
}

type binaryNode struct {
	op          tokenKind
	left, right node
}

func (n *binaryNode) eval(e *env) (number, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return number{}, err
	}
	r, err := n.right.eval(e)
	if err != nil {
		return number{}, err
	}
	switch n.op {
	case tokPlus:
		return addNumbers(l, r), nil
	case tokMinus:
		return subNumbers(l, r), nil
	case tokStar:
		return mulNumbers(l, r), nil
	case tokSlash:
		return divNumbers(l, r)
	case tokPower:
		return powNumbers(l, r)
	}
	return number{}, fmt.Errorf("%w: operator %s", errSyntax, n.op)
}

func (n *binaryNode) String() string {
	var op string
	switch n.op {
	case tokPlus:
		op = "+"
	case tokMinus:
		op = "-"
	case tokStar:
		op = "*"
	case tokSlash:
		op = "/"
	case tokPower:
		op = "**"
	}
	return "(" + n.left.String() + op + n.right.String() + ")"
}

// parser is a recursive-descent parser for the formula grammar:
//
//	expr   := term (('+'|'-') term)*
//	term   := unary (('*'|'/') unary)*
//	unary  := ('+'|'-') unary | power
//	power  := factor ('**' unary)?
//	factor := NUMBER | NAME | NAME '(' [expr (',' expr)*] ')' | '(' expr ')'
type parser struct {
	tokens []token
	pos    int
}

// parseExpression parses normalized formula text into a tree.
func parseExpression(text string) (node, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %s at %d", errSyntax, tok.kind, tok.pos)
	}
	return n, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokPlus && op != tokMinus {
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokStar && op != tokSlash {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op := p.peek().kind; op == tokPlus || op == tokMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower binds tighter than a unary sign on its left and is
// right-associative: -2**2 is -(2**2), 2**3**2 is 2**(3**2).
func (p *parser) parsePower() (node, error) {
	base, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokPower {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: tokPower, left: base, right: exp}, nil
}

func (p *parser) parseFactor() (node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokNumber:
		v, err := parseNumberLiteral(tok.text)
		if err != nil {
			return nil, err
		}
		return &numberNode{value: v}, nil

	case tokName:
		if p.peek().kind != tokLParen {
			return &refNode{name: strings.ToUpper(tok.text)}, nil
		}
		p.advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &callNode{name: strings.ToUpper(tok.text), args: args}, nil

	case tokLParen:
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at %d, got %s", errSyntax, closing.pos, closing.kind)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: unexpected %s at %d", errSyntax, tok.kind, tok.pos)
}

// parseArgs parses a call's argument list after the opening parenthesis.
func (p *parser) parseArgs() ([]node, error) {
	var args []node
	if p.peek().kind == tokRParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch tok := p.advance(); tok.kind {
		case tokRParen:
			return args, nil
		case tokComma:
		default:
			return nil, fmt.Errorf("%w: expected ',' or ')' at %d, got %s", errSyntax, tok.pos, tok.kind)
		}
	}
}

// parseNumberLiteral accepts "12", "1.5", "5.", ".5" and exponent forms such
// as "1e+20", which are floats. Integer literals with leading zeros other
// than a run of zeros are rejected.
func parseNumberLiteral(text string) (number, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return number{}, fmt.Errorf("%w: invalid number %q", errSyntax, text)
		}
		return floatNumber(f), nil
	}
	if len(text) > 1 && text[0] == '0' && strings.Trim(text, "0") != "" {
		return number{}, fmt.Errorf("%w: leading zeros in %q", errSyntax, text)
	}
	n, ok := coerceNumber(text)
	if !ok {
		return number{}, fmt.Errorf("%w: invalid number %q", errSyntax, text)
	}
	return n, nil
}
