// Package formula resolves formula-valued magnitudes: literal numbers or
// small arithmetic expressions over a fixed variable vocabulary. The grammar
// is closed (identifiers from the vocabulary, numeric literals, + - * /,
// unary minus and parentheses), so an expression can never reach the host
// environment or loop. Evaluation is a pure function of the supplied
// bindings.
package formula

import (
	"errors"
	"fmt"
	"math"
)

// Defensive caps. The grammar itself cannot loop, but pathological input
// (generated packs, copy-paste accidents) is rejected before parsing.
const (
	maxExprLen   = 512
	maxExprDepth = 32
)

// InvalidVariableError reports an identifier outside the vocabulary or, at
// evaluation time, a variable missing from the bindings.
type InvalidVariableError struct {
	Name string
}

func (e *InvalidVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// SyntaxError reports a malformed expression. Pos is the byte offset of the
// offending token.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// ErrNonFinite is returned when an expression evaluates to NaN or ±Inf
// (division by zero and friends).
var ErrNonFinite = errors.New("expression result is not finite")

// ErrTooLong is returned for expressions over the defensive length cap.
var ErrTooLong = fmt.Errorf("expression longer than %d bytes", maxExprLen)

// Bindings maps canonical variable names to their numeric values. Builders
// are expected to populate the full vocabulary of their scope so that a
// lookup miss always means "variable not in scope".
type Bindings map[string]float64

// Resolve evaluates a Value against the bindings. Literal numbers pass
// through untouched; expressions are parsed and evaluated. All errors are
// returned, never panicked: *InvalidVariableError, *SyntaxError, ErrTooLong
// or ErrNonFinite.
func Resolve(v Value, b Bindings) (float64, error) {
	if v.isNum {
		return v.num, nil
	}
	return Eval(v.expr, b)
}

// Eval parses and evaluates an expression string against the bindings.
func Eval(expr string, b Bindings) (float64, error) {
	result, err := run(expr, func(name string, pos int) (float64, error) {
		if val, ok := b[CanonicalName(name)]; ok {
			return val, nil
		}
		return 0, &InvalidVariableError{Name: name}
	})
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, ErrNonFinite
	}
	return result, nil
}

// Validate checks a Value for authoring: the expression must parse and every
// identifier must belong to the vocabulary of the given scope. Literal
// numbers are always valid.
func Validate(v Value, scope Scope) error {
	if v.isNum {
		return nil
	}
	_, err := run(v.expr, func(name string, pos int) (float64, error) {
		if Known(name, scope) {
			return 0, nil
		}
		return 0, &InvalidVariableError{Name: name}
	})
	return err
}

// lookupFunc supplies the value of a variable during evaluation.
type lookupFunc func(name string, pos int) (float64, error)

// run tokenizes and evaluates expr in one pass over a recursive-descent
// parse. Grammar:
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := '-' unary | primary
//	primary := NUMBER | IDENT | '(' expr ')'
func run(expr string, lookup lookupFunc) (float64, error) {
	if len(expr) > maxExprLen {
		return 0, ErrTooLong
	}
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks, lookup: lookup}
	result, err := p.parseExpr(0)
	if err != nil {
		return 0, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return 0, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
	return result, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	pos  int
	text string
	val  float64 // set for tokNumber
}

// tokenize scans expr into tokens. On a syntax error it returns the tokens
// scanned so far together with the error, so the annotate pass can still
// label the valid prefix.
func tokenize(expr string) ([]token, error) {
	toks := make([]token, 0, 16)
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, pos: i, text: "+"})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, pos: i, text: "-"})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar, pos: i, text: "*"})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, pos: i, text: "/"})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i, text: ")"})
			i++
		case c >= '0' && c <= '9' || c == '.':
			tok, next, err := scanNumber(expr, i)
			if err != nil {
				return toks, err
			}
			toks = append(toks, tok)
			i = next
		case isIdentStart(c):
			start := i
			for i < len(expr) && isIdentPart(expr[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, pos: start, text: expr[start:i]})
		default:
			return toks, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", string(c))}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(expr)})
	return toks, nil
}

func scanNumber(expr string, start int) (token, int, error) {
	i := start
	sawDigit := false
	for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
		sawDigit = true
		i++
	}
	if i < len(expr) && expr[i] == '.' {
		i++
		for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
			sawDigit = true
			i++
		}
	}
	if !sawDigit {
		return token{}, 0, &SyntaxError{Pos: start, Msg: "malformed number"}
	}
	text := expr[start:i]
	val, err := parseNumber(text)
	if err != nil {
		return token{}, 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed number %q", text)}
	}
	return token{kind: tokNumber, pos: start, text: text, val: val}, i, nil
}

// parseNumber converts a decimal literal without pulling in strconv's full
// syntax (no exponents, no hex).
func parseNumber(text string) (float64, error) {
	var intPart, fracPart float64
	var fracDiv float64 = 1
	seenDot := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '.' {
			if seenDot {
				return 0, fmt.Errorf("second decimal point")
			}
			seenDot = true
			continue
		}
		d := float64(c - '0')
		if seenDot {
			fracDiv *= 10
			fracPart += d / fracDiv
		} else {
			intPart = intPart*10 + d
		}
	}
	return intPart + fracPart, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

type parser struct {
	toks   []token
	next   int
	lookup lookupFunc
}

func (p *parser) peek() token {
	return p.toks[p.next]
}

func (p *parser) advance() token {
	tok := p.toks[p.next]
	if tok.kind != tokEOF {
		p.next++
	}
	return tok
}

func (p *parser) parseExpr(depth int) (float64, error) {
	left, err := p.parseTerm(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.advance()
			right, err := p.parseTerm(depth)
			if err != nil {
				return 0, err
			}
			left += right
		case tokMinus:
			p.advance()
			right, err := p.parseTerm(depth)
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm(depth int) (float64, error) {
	left, err := p.parseUnary(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.advance()
			right, err := p.parseUnary(depth)
			if err != nil {
				return 0, err
			}
			left *= right
		case tokSlash:
			p.advance()
			right, err := p.parseUnary(depth)
			if err != nil {
				return 0, err
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary(depth int) (float64, error) {
	if depth > maxExprDepth {
		return 0, &SyntaxError{Pos: p.peek().pos, Msg: "expression nested too deeply"}
	}
	if p.peek().kind == tokMinus {
		p.advance()
		val, err := p.parseUnary(depth + 1)
		if err != nil {
			return 0, err
		}
		return -val, nil
	}
	return p.parsePrimary(depth)
}

func (p *parser) parsePrimary(depth int) (float64, error) {
	tok := p.advance()
	switch tok.kind {
	case tokNumber:
		return tok.val, nil
	case tokIdent:
		return p.lookup(tok.text, tok.pos)
	case tokLParen:
		val, err := p.parseExpr(depth + 1)
		if err != nil {
			return 0, err
		}
		closing := p.advance()
		if closing.kind != tokRParen {
			return 0, &SyntaxError{Pos: closing.pos, Msg: "missing closing parenthesis"}
		}
		return val, nil
	case tokEOF:
		return 0, &SyntaxError{Pos: tok.pos, Msg: "unexpected end of expression"}
	default:
		return 0, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
}
