package cliph

import (
	"math"
	"strconv"
)

// String renders e as fully parenthesized infix text that Parse reads back
// into the same tree.
func String(e Expr) string { return e.String() }

// LaTeX renders e as LaTeX math (without $ delimiters).
func LaTeX(e Expr) string { return e.LaTeX() }

func formatNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (n *Num) String() string { return formatNum(n.val) }

func (n *Num) LaTeX() string {
	if n.val == math.Trunc(n.val) {
		return strconv.FormatFloat(n.val, 'f', 0, 64)
	}
	return formatNum(n.val)
}

func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }

func (u *Unary) String() string { return "-" + u.arg.String() }
func (u *Unary) LaTeX() string  { return "-" + u.arg.LaTeX() }

func (b *Binary) String() string {
	return "(" + b.left.String() + " " + b.op.String() + " " + b.right.String() + ")"
}

func (b *Binary) LaTeX() string {
	l, r := b.left.LaTeX(), b.right.LaTeX()
	switch b.op {
	case OpAdd:
		return l + " + " + r
	case OpSub:
		return l + " - " + r
	case OpMul:
		return l + " " + r
	case OpDiv:
		return `\frac{` + l + "}{" + r + "}"
	}
	return l + "^{" + r + "}"
}

func (f *Func) String() string { return f.fn.Name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	if f.fn.Kind == FuncAbs {
		return `\left|` + arg + `\right|`
	}
	name, ok := f.fn.latexName()
	if !ok {
		name = f.fn.Name
	}
	return name + `\left(` + arg + `\right)`
}
