package gridcalc

import "fmt"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokName
	tokLParen
	tokRParen
	tokComma
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPower
)

var tokenNames = [...]string{
	tokEOF:    "end of formula",
	tokNumber: "number",
	tokName:   "name",
	tokLParen: "'('",
	tokRParen: "')'",
	tokComma:  "','",
	tokPlus:   "'+'",
	tokMinus:  "'-'",
	tokStar:   "'*'",
	tokSlash:  "'/'",
	tokPower:  "'**'",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer splits normalized formula text (no '=' prefix) into tokens.
type lexer struct {
	input string
	pos   int
}

func tokenize(input string) ([]token, error) {
	l := &lexer{input: input}
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	ch := l.input[l.pos]
	switch {
	case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		return l.scanNumber(), nil
	case isNameStart(ch):
		for l.pos < len(l.input) && isNamePart(l.input[l.pos]) {
			l.pos++
		}
		return token{kind: tokName, text: l.input[start:l.pos], pos: start}, nil
	}

	l.pos++
	switch ch {
	case '(':
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ')':
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case ',':
		return token{kind: tokComma, text: ",", pos: start}, nil
	case '+':
		return token{kind: tokPlus, text: "+", pos: start}, nil
	case '-':
		return token{kind: tokMinus, text: "-", pos: start}, nil
	case '/':
		return token{kind: tokSlash, text: "/", pos: start}, nil
	case '*':
		if l.pos < len(l.input) && l.input[l.pos] == '*' {
			l.pos++
			return token{kind: tokPower, text: "**", pos: start}, nil
		}
		return token{kind: tokStar, text: "*", pos: start}, nil
	}
	return token{}, fmt.Errorf("%w: unexpected character %q at %d", errSyntax, ch, start)
}

// scanNumber reads digits with an optional fractional part ("5", "5.", ".5")
// and an optional signed exponent ("1e+20", "5E-06"). The sign is required:
// "2E1" is the number 2 followed by the cell name E1.
func (l *lexer) scanNumber() token {
	start := l.pos
	l.skipDigits()
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		l.skipDigits()
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		sign := l.pos + 1
		if sign+1 < len(l.input) && (l.input[sign] == '+' || l.input[sign] == '-') && isDigit(l.input[sign+1]) {
			l.pos = sign + 1
			l.skipDigits()
		}
	}
	return token{kind: tokNumber, text: l.input[start:l.pos], pos: start}
}

func (l *lexer) skipDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isNameStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNamePart(ch byte) bool { return isNameStart(ch) || isDigit(ch) }
