package cliph

// Diff returns the derivative of expr with respect to varName, simplified.
//
// Powers with a non-constant exponent and functions other than sin, cos,
// exp and log are not differentiated; the offending sub-expression is
// wrapped in a diff_not_supported function node instead. Use
// IsDiffUnsupported to detect that case.
func Diff(expr Expr, varName string) Expr {
	return expr.Simplify().derive(varName).Simplify()
}

// DiffN returns the n-th derivative of expr with respect to varName.
func DiffN(expr Expr, varName string, n int) Expr {
	result := expr.Simplify()
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// IsDiffUnsupported reports whether e contains a diff_not_supported node.
func IsDiffUnsupported(e Expr) bool {
	switch v := e.(type) {
	case *Unary:
		return IsDiffUnsupported(v.arg)
	case *Binary:
		return IsDiffUnsupported(v.left) || IsDiffUnsupported(v.right)
	case *Func:
		return v.fn.Kind == FuncDiffUnsupported || IsDiffUnsupported(v.arg)
	}
	return false
}

func unsupported(e Expr) Expr { return funcOf(FuncDiffUnsupported, e) }

func (n *Num) derive(string) Expr { return N(0) }

func (s *Sym) derive(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

func (u *Unary) derive(varName string) Expr {
	return Negate(u.arg.derive(varName))
}

func (b *Binary) derive(varName string) Expr {
	switch b.op {
	case OpAdd, OpSub:
		return binaryOf(b.op, b.left.derive(varName), b.right.derive(varName))
	case OpMul:
		// (uv)' = u'v + uv'
		return AddOf(
			MulOf(b.left.derive(varName), b.right),
			MulOf(b.left, b.right.derive(varName)),
		)
	case OpDiv:
		// (u/v)' = (u'v - uv') / v^2
		return DivOf(
			SubOf(MulOf(b.left.derive(varName), b.right), MulOf(b.left, b.right.derive(varName))),
			PowOf(b.right, N(2)),
		)
	case OpPow:
		n, ok := b.right.(*Num)
		if !ok {
			return unsupported(b)
		}
		return MulOf(MulOf(n, PowOf(b.left, N(n.val-1))), b.left.derive(varName))
	}
	return unsupported(b)
}

func (f *Func) derive(varName string) Expr {
	var outer Expr
	switch f.fn.Kind {
	case FuncSin:
		outer = CosOf(f.arg)
	case FuncCos:
		outer = Negate(SinOf(f.arg))
	case FuncExp:
		outer = ExpOf(f.arg)
	case FuncLog:
		return DivOf(f.arg.derive(varName), f.arg)
	default:
		return unsupported(f)
	}
	return MulOf(outer, f.arg.derive(varName))
}
