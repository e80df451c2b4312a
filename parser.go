package cliph

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// MaxDepth bounds the nesting of parentheses, prefix negations and function
// calls accepted by Parse, so adversarial input cannot exhaust the stack of
// the parser or of the recursive transforms run on its output.
const MaxDepth = 256

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	UnexpectedCharacter ErrorKind = iota
	UnexpectedEnd
	ExpectedClosingParen
	ExpectedClosingParenAfterCall
	InvalidNumericLiteral
	TrailingInput
	NestingTooDeep
)

var errorMessages = [...]string{
	UnexpectedCharacter:           "unexpected character",
	UnexpectedEnd:                 "unexpected end of input",
	ExpectedClosingParen:          "expected ')'",
	ExpectedClosingParenAfterCall: "expected ')' after function argument",
	InvalidNumericLiteral:         "invalid number",
	TrailingInput:                 "unexpected characters after expression",
	NestingTooDeep:                "expression nested too deeply",
}

func (k ErrorKind) String() string { return errorMessages[k] }

// ParseError reports why and where Parse rejected its input.
type ParseError struct {
	Kind ErrorKind
	// Pos is the byte offset at which the error was detected.
	Pos int
	// Char is the offending character for UnexpectedCharacter.
	Char rune
	// Literal is the rejected text for InvalidNumericLiteral.
	Literal string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("%s %q at offset %d", e.Kind, e.Char, e.Pos)
	case InvalidNumericLiteral:
		return fmt.Sprintf("%s %q at offset %d", e.Kind, e.Literal, e.Pos)
	}
	return fmt.Sprintf("%s at offset %d", e.Kind, e.Pos)
}

// Parse converts an infix expression into a raw, unsimplified tree.
//
// Grammar, lowest precedence first:
//
//	add_sub := mul_div (('+' | '-') mul_div)*
//	mul_div := pow (('*' | '/') pow | pow)*      the bare pow is implicit multiplication
//	pow     := unary ('^' unary)?
//	unary   := '-' unary | atom
//	atom    := number | ident | ident '(' add_sub ')' | '(' add_sub ')'
//
// '^' binds once, so "a^b^c" is rejected as trailing input, and "-x^2"
// reads as (-x)^2. An identifier followed by '(', with or without spaces
// between, is always a function call: "x(y)" calls x and does not multiply
// x by y. Write "x*(y)" for the product.
func Parse(text string) (Expr, error) {
	p := parser{input: text}
	p.skipSpace()
	expr, err := p.parseAddSub()
	if err == nil {
		p.skipSpace()
		if !p.done() {
			err = p.fail(TrailingInput)
		}
	}
	if err != nil {
		debugf("parse %q: %v", text, err)
		return nil, err
	}
	return expr, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic("cliph: " + err.Error())
	}
	return e
}

// ParseLaTeX runs the LaTeX pre-pass on text and parses the result.
func ParseLaTeX(text string) (Expr, error) {
	return Parse(LaTeXToInfix(text))
}

type parser struct {
	input string
	pos   int
	depth int
}

func (p *parser) done() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for !p.done() && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) fail(kind ErrorKind) *ParseError {
	return &ParseError{Kind: kind, Pos: p.pos}
}

func (p *parser) unexpected() *ParseError {
	if p.done() {
		return p.fail(UnexpectedEnd)
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return &ParseError{Kind: UnexpectedCharacter, Pos: p.pos, Char: r}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return p.fail(NestingTooDeep)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseAddSub() (Expr, error) {
	node, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		var op BinaryOp
		switch p.peek() {
		case '+':
			op = OpAdd
		case '-':
			op = OpSub
		default:
			return node, nil
		}
		p.pos++
		rhs, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		node = binaryOf(op, node, rhs)
	}
}

func (p *parser) parseMulDiv() (Expr, error) {
	node, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := OpMul
		switch c := p.peek(); {
		case c == '*':
			p.pos++
		case c == '/':
			op = OpDiv
			p.pos++
		case p.startsAtom(c):
			// implicit multiplication: 2x, 2(x+1), (a)(b)
		default:
			return node, nil
		}
		rhs, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		node = binaryOf(op, node, rhs)
	}
}

func (p *parser) startsAtom(c byte) bool {
	return !p.done() && (isDigit(c) || isLetter(c) || c == '(')
}

func (p *parser) parsePow() (Expr, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) parseUnary() (Expr, error) {
	p.skipSpace()
	if p.peek() != '-' {
		return p.parseAtom()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.pos++
	arg, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return Negate(arg), nil
}

func (p *parser) parseAtom() (Expr, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case p.done():
		return nil, p.fail(UnexpectedEnd)
	case isDigit(c) || c == '.':
		return p.parseNumber()
	case isLetter(c):
		return p.parseIdentOrCall()
	case c == '(':
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		p.pos++
		inner, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.fail(ExpectedClosingParen)
		}
		p.pos++
		return inner, nil
	}
	return nil, p.unexpected()
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	for !p.done() && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	lit := p.input[start:p.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, &ParseError{Kind: InvalidNumericLiteral, Pos: start, Literal: lit}
	}
	return N(v), nil
}

func (p *parser) parseIdentOrCall() (Expr, error) {
	start := p.pos
	for !p.done() && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	p.skipSpace()
	if p.peek() != '(' {
		return S(name), nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.pos++
	arg, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != ')' {
		return nil, p.fail(ExpectedClosingParenAfterCall)
	}
	p.pos++
	return Call(name, arg), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' }

func isIdentByte(c byte) bool { return isLetter(c) || isDigit(c) }
