// Package cliph provides a small symbolic-expression engine for Go.
//
// It parses infix (or LaTeX-flavoured) math into an expression tree,
// canonicalizes the tree under a fixed set of algebraic identities,
// differentiates it symbolically and renders it back to plain text or LaTeX.
//
// Design goals:
//   - Immutable binary trees: every transform returns a brand-new tree
//   - float64 arithmetic with total-order equality on constants
//   - Deterministic, rule-based simplification
//   - JSON, LaTeX and MCP-ready APIs
package cliph

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of an expression tree. Trees are immutable: no method
// mutates its receiver or its children.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Eval(env Env) (float64, error)
	Equal(other Expr) bool
	// Key returns a string that is identical for structurally equal trees
	// and distinct otherwise.
	Key() string
	derive(varName string) Expr
	exprType() string
	toJSON() map[string]interface{}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Expr) bool { return a.Equal(b) }

// Hash returns a hash of e that is consistent with Equal.
func Hash(e Expr) uint64 {
	h := fnv.New64a()
	h.Write([]byte(e.Key()))
	return h.Sum64()
}

// ============================================================
// Num — float64 constant
// ============================================================

type Num struct{ val float64 }

// N builds a constant. Negative zero is stored as zero.
func N(v float64) *Num {
	if v == 0 {
		v = 0
	}
	return &Num{val: v}
}

func (n *Num) Value() float64   { return n.val }
func (n *Num) IsZero() bool     { return n.val == 0 }
func (n *Num) exprType() string { return "num" }

// Equal treats -0 and 0 as the same constant and NaN as equal to itself.
func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	if !ok {
		return false
	}
	if math.IsNaN(n.val) {
		return math.IsNaN(o.val)
	}
	return n.val == o.val
}

func (n *Num) Key() string {
	return "n" + strconv.FormatUint(numBits(n.val), 16)
}

func (n *Num) Sub(string, Expr) Expr { return n }

func numBits(v float64) uint64 {
	switch {
	case math.IsNaN(v):
		return 0x7ff8000000000001
	case v == 0:
		return 0
	}
	return math.Float64bits(v)
}

func isNum(e Expr, v float64) bool {
	n, ok := e.(*Num)
	return ok && n.val == v
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string     { return s.name }
func (s *Sym) exprType() string { return "sym" }
func (s *Sym) Key() string      { return "s" + lenPrefixed(s.name) }
func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

// ============================================================
// Unary — prefix operator
// ============================================================

type UnaryOp int

const (
	OpNeg UnaryOp = iota
)

type Unary struct {
	op  UnaryOp
	arg Expr
}

// Negate builds -arg.
func Negate(arg Expr) *Unary { return &Unary{op: OpNeg, arg: arg} }

func (u *Unary) Op() UnaryOp      { return u.op }
func (u *Unary) Arg() Expr        { return u.arg }
func (u *Unary) exprType() string { return "neg" }
func (u *Unary) Key() string      { return "u" + strconv.Itoa(int(u.op)) + "(" + u.arg.Key() + ")" }
func (u *Unary) Equal(other Expr) bool {
	o, ok := other.(*Unary)
	return ok && u.op == o.op && u.arg.Equal(o.arg)
}
func (u *Unary) Sub(varName string, value Expr) Expr {
	return &Unary{op: u.op, arg: u.arg.Sub(varName, value)}
}

func isNeg(e Expr) (*Unary, bool) {
	u, ok := e.(*Unary)
	return u, ok && u.op == OpNeg
}

// ============================================================
// Binary — infix operator
// ============================================================

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var binaryNames = [...]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpPow: "pow",
}

var binarySymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

func (op BinaryOp) String() string { return binarySymbols[op] }

// Commutative reports whether the operator is semantically commutative.
// The tree still stores a fixed left/right order for every operator.
func (op BinaryOp) Commutative() bool { return op == OpAdd || op == OpMul }

type Binary struct {
	op          BinaryOp
	left, right Expr
}

func binaryOf(op BinaryOp, left, right Expr) *Binary {
	return &Binary{op: op, left: left, right: right}
}

func AddOf(left, right Expr) *Binary { return binaryOf(OpAdd, left, right) }
func SubOf(left, right Expr) *Binary { return binaryOf(OpSub, left, right) }
func MulOf(left, right Expr) *Binary { return binaryOf(OpMul, left, right) }
func DivOf(left, right Expr) *Binary { return binaryOf(OpDiv, left, right) }
func PowOf(base, exp Expr) *Binary   { return binaryOf(OpPow, base, exp) }

func (b *Binary) Op() BinaryOp     { return b.op }
func (b *Binary) Left() Expr       { return b.left }
func (b *Binary) Right() Expr      { return b.right }
func (b *Binary) exprType() string { return binaryNames[b.op] }
func (b *Binary) Key() string {
	return "b" + strconv.Itoa(int(b.op)) + "(" + b.left.Key() + "," + b.right.Key() + ")"
}
func (b *Binary) Equal(other Expr) bool {
	o, ok := other.(*Binary)
	return ok && b.op == o.op && b.left.Equal(o.left) && b.right.Equal(o.right)
}
func (b *Binary) Sub(varName string, value Expr) Expr {
	return binaryOf(b.op, b.left.Sub(varName, value), b.right.Sub(varName, value))
}

func isBinary(e Expr, op BinaryOp) (*Binary, bool) {
	b, ok := e.(*Binary)
	return b, ok && b.op == op
}

// ============================================================
// Func — one-argument function application
// ============================================================

type Func struct {
	fn  Function
	arg Expr
}

// Call applies the function called name to arg. Unrecognized names are
// kept verbatim as opaque functions.
func Call(name string, arg Expr) *Func { return &Func{fn: Lookup(name), arg: arg} }

func funcOf(kind FuncKind, arg Expr) *Func {
	return &Func{fn: Function{Kind: kind, Name: kind.String()}, arg: arg}
}

func SinOf(arg Expr) *Func { return funcOf(FuncSin, arg) }
func CosOf(arg Expr) *Func { return funcOf(FuncCos, arg) }
func TanOf(arg Expr) *Func { return funcOf(FuncTan, arg) }
func LogOf(arg Expr) *Func { return funcOf(FuncLog, arg) }
func ExpOf(arg Expr) *Func { return funcOf(FuncExp, arg) }
func AbsOf(arg Expr) *Func { return funcOf(FuncAbs, arg) }

func (f *Func) Func() Function   { return f.fn }
func (f *Func) FuncName() string { return f.fn.Name }
func (f *Func) Arg() Expr        { return f.arg }
func (f *Func) exprType() string { return "func" }
func (f *Func) Key() string {
	return "f" + strconv.Itoa(int(f.fn.Kind)) + lenPrefixed(f.fn.Name) + "(" + f.arg.Key() + ")"
}
func (f *Func) Sub(varName string, value Expr) Expr {
	return &Func{fn: f.fn, arg: f.arg.Sub(varName, value)}
}
func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.fn == o.fn && f.arg.Equal(o.arg)
}

func lenPrefixed(s string) string { return strconv.Itoa(len(s)) + ":" + s }

// ============================================================
// Free Symbols
// ============================================================

// FreeSymbols returns the sorted, distinct variable names used in e.
func FreeSymbols(e Expr) []string {
	seen := map[string]struct{}{}
	collectSymbols(e, seen)
	names := maps.Keys(seen)
	slices.Sort(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Unary:
		collectSymbols(v.arg, out)
	case *Binary:
		collectSymbols(v.left, out)
		collectSymbols(v.right, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// Sub replaces every occurrence of varName in expr by value. The result is
// not simplified.
func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value)
}

// isIdent reports whether s is a valid identifier: ASCII letters, digits and
// underscores, not starting with a digit.
func isIdent(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !(r < 0x80 && isIdentByte(byte(r)))
	}) < 0
}
