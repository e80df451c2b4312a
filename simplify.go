package cliph

import "math"

// Epsilon is the absolute tolerance used when simplification compares a
// computed constant against 0 or 1.
const Epsilon = 1e-12

func approx(a, b float64) bool { return math.Abs(a-b) <= Epsilon }

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Simplify rewrites e bottom-up into a reduced, equivalent tree. It never
// fails and is idempotent: Simplify(Simplify(e)) equals Simplify(e).
func Simplify(e Expr) Expr { return e.Simplify() }

func (n *Num) Simplify() Expr { return n }
func (s *Sym) Simplify() Expr { return s }

func (u *Unary) Simplify() Expr {
	return negate(u.arg.Simplify())
}

// negate applies the negation rules to an already simplified operand.
func negate(arg Expr) Expr {
	switch v := arg.(type) {
	case *Num:
		return N(-v.val)
	case *Unary:
		if v.op == OpNeg {
			return v.arg
		}
	case *Binary:
		switch v.op {
		case OpAdd:
			return sum(negate(v.left), negate(v.right))
		case OpSub:
			return sum(negate(v.left), v.right)
		}
	}
	return Negate(arg)
}

func (b *Binary) Simplify() Expr {
	left := b.left.Simplify()
	right := b.right.Simplify()
	switch b.op {
	case OpAdd:
		return sum(left, right)
	case OpMul:
		return product(left, right)
	case OpSub:
		return difference(left, right)
	case OpDiv:
		return quotient(left, right)
	case OpPow:
		return power(left, right)
	}
	return binaryOf(b.op, left, right)
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if v, ok := f.fn.fold(n.val); ok {
			return N(v)
		}
	}
	return &Func{fn: f.fn, arg: arg}
}

// sum flattens both operands into one term list and collects it.
func sum(left, right Expr) Expr {
	terms := flatten(OpAdd, left, nil)
	terms = flatten(OpAdd, right, terms)
	return collectTerms(terms)
}

// product flattens both operands, multiplies their constants together and
// folds what remains into a right-leaning chain led by the constant. A
// constant part that overflows is left unfolded.
func product(left, right Expr) Expr {
	factors := flatten(OpMul, left, nil)
	factors = flatten(OpMul, right, factors)

	coeff := 1.0
	var consts []Expr
	others := make([]Expr, 0, len(factors))
	for _, f := range factors {
		n, ok := f.(*Num)
		if !ok {
			others = append(others, f)
			continue
		}
		if n.IsZero() {
			debugf("product: zero factor in %d factors", len(factors))
			return N(0)
		}
		coeff *= n.val
		consts = append(consts, f)
	}
	if coeff == 0 {
		return N(0)
	}

	out := make([]Expr, 0, len(factors))
	switch {
	case !isFinite(coeff):
		debugf("product: %d constants overflow", len(consts))
		out = append(out, consts...)
	case !approx(coeff, 1):
		out = append(out, N(coeff))
	}
	out = append(out, others...)
	switch len(out) {
	case 0:
		return N(1)
	case 1:
		return out[0]
	}
	return foldRight(OpMul, out)
}

func difference(left, right Expr) Expr {
	if left.Equal(right) {
		debugf("difference: %v cancels", left)
		return N(0)
	}
	if r, ok := isBinary(right, OpAdd); ok {
		return sum(left, sum(negate(r.left), negate(r.right)))
	}
	return sum(left, negate(right))
}

func quotient(left, right Expr) Expr {
	ln, lok := left.(*Num)
	rn, rok := right.(*Num)
	switch {
	case lok && rok && !rn.IsZero() && isFinite(ln.val/rn.val):
		return N(ln.val / rn.val)
	case isNum(right, 1):
		return left
	case isNum(left, 0) && !isNum(right, 0):
		return N(0)
	}
	return DivOf(left, right)
}

func power(base, exp Expr) Expr {
	if n, ok := exp.(*Num); ok {
		if approx(n.val, 0) {
			return N(1)
		}
		if approx(n.val, 1) {
			return base
		}
	}
	return PowOf(base, exp)
}

// flatten appends the operands of a chain of op to out, left to right.
func flatten(op BinaryOp, e Expr, out []Expr) []Expr {
	if b, ok := isBinary(e, op); ok {
		out = flatten(op, b.left, out)
		return flatten(op, b.right, out)
	}
	return append(out, e)
}

// foldRight builds x0 op (x1 op (... op xn)). xs must not be empty.
func foldRight(op BinaryOp, xs []Expr) Expr {
	out := xs[len(xs)-1]
	for i := len(xs) - 2; i >= 0; i-- {
		out = binaryOf(op, xs[i], out)
	}
	return out
}
