package cliph

import "golang.org/x/exp/slices"

// maxCoefficientDepth bounds the recursion of splitCoefficient. Deeper
// terms are treated as opaque bases with coefficient 1.
const maxCoefficientDepth = 64

var one = N(1)

type likeTerm struct {
	base  Expr
	coeff float64
	terms []Expr
}

// collectTerms implements the addition rule on a flattened list of
// simplified terms: like terms are merged, sin(a)^2 + cos(a)^2 pairs with
// equal coefficients become constants, and the constants are summed into a
// single leading term. The result never holds a sum as a direct term.
func collectTerms(terms []Expr) Expr {
	return collectAt(terms, 0)
}

func collectAt(terms []Expr, depth int) Expr {
	index := map[string]*likeTerm{}
	order := make([]*likeTerm, 0, len(terms))
	for _, t := range terms {
		coeff, base, ok := splitCoefficient(t)
		if !ok {
			coeff, base = 1, t
		}
		key := base.Key()
		lt, seen := index[key]
		if !seen {
			lt = &likeTerm{base: base}
			index[key] = lt
			order = append(order, lt)
		}
		lt.coeff += coeff
		lt.terms = append(lt.terms, t)
	}

	constant := 0.0
	for i, lt := range order {
		if lt.coeff == 0 || !isFinite(lt.coeff) {
			continue
		}
		if j := pythagoreanPartner(order, i); j >= 0 && isFinite(constant+lt.coeff) {
			debugf("pythagorean: %v + %v", lt.base, order[j].base)
			constant += lt.coeff
			lt.coeff, order[j].coeff = 0, 0
		}
	}

	out := make([]Expr, 0, len(order)+1)
	nested := false
	for _, lt := range order {
		var t Expr
		switch {
		case !isFinite(lt.coeff), lt.base.Equal(one) && !isFinite(constant+lt.coeff):
			debugf("sum: %d terms overflow, kept apart", len(lt.terms))
			out = append(out, lt.terms...)
			continue
		case approx(lt.coeff, 0):
			continue
		case lt.base.Equal(one):
			constant += lt.coeff
			continue
		case lt.coeff == 1:
			t = lt.base
		case lt.coeff == -1:
			t = negate(lt.base)
		default:
			t = product(N(lt.coeff), lt.base)
		}
		if _, ok := isBinary(t, OpAdd); ok {
			nested = true
		}
		out = append(out, t)
	}

	// A sum used as a base came back out as a sum. Its terms join the
	// list and are collected again.
	if nested && depth < maxCoefficientDepth {
		flat := make([]Expr, 0, len(out)+2)
		if !approx(constant, 0) {
			flat = append(flat, N(constant))
		}
		for _, t := range out {
			flat = flatten(OpAdd, t, flat)
		}
		debugf("sum: recollecting %d terms", len(flat))
		return collectAt(flat, depth+1)
	}

	if !approx(constant, 0) {
		out = append([]Expr{N(constant)}, out...)
	}

	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return foldRight(OpAdd, out)
}

// pythagoreanPartner returns the index of the term that completes
// sin(a)^2 + cos(a)^2 with order[i], or -1.
func pythagoreanPartner(order []*likeTerm, i int) int {
	fn, arg, ok := squaredTrig(order[i].base)
	if !ok {
		return -1
	}
	want := FuncCos
	if fn == FuncCos {
		want = FuncSin
	}
	coeff := order[i].coeff
	return slices.IndexFunc(order, func(lt *likeTerm) bool {
		if lt.coeff == 0 || !approx(lt.coeff, coeff) {
			return false
		}
		k, a, ok := squaredTrig(lt.base)
		return ok && k == want && a.Equal(arg)
	})
}

// squaredTrig matches sin(a)^2 and cos(a)^2.
func squaredTrig(e Expr) (FuncKind, Expr, bool) {
	p, ok := isBinary(e, OpPow)
	if !ok || !isNum(p.right, 2) {
		return 0, nil, false
	}
	f, ok := p.left.(*Func)
	if !ok || (f.fn.Kind != FuncSin && f.fn.Kind != FuncCos) {
		return 0, nil, false
	}
	return f.fn.Kind, f.arg, true
}

// splitCoefficient splits a term into its numeric coefficient and the
// remaining base: 3 is (3, 1), -x is (-1, x), 2*(x*-y) is (-2, x*y) and
// anything else is (1, itself). A term whose coefficient would not be
// finite is its own base. ok is false when the term is nested deeper
// than maxCoefficientDepth.
func splitCoefficient(e Expr) (coeff float64, base Expr, ok bool) {
	return splitAt(e, 0)
}

func splitAt(e Expr, depth int) (float64, Expr, bool) {
	if depth > maxCoefficientDepth {
		return 0, nil, false
	}
	switch v := e.(type) {
	case *Num:
		if !isFinite(v.val) {
			return 1, e, true
		}
		return v.val, one, true
	case *Unary:
		if v.op == OpNeg {
			c, base, ok := splitAt(v.arg, depth+1)
			return -c, base, ok
		}
	case *Binary:
		if v.op == OpMul {
			lc, lb, ok := splitAt(v.left, depth+1)
			if !ok {
				return 0, nil, false
			}
			rc, rb, ok := splitAt(v.right, depth+1)
			if !ok {
				return 0, nil, false
			}
			c := lc * rc
			if !isFinite(c) {
				return 1, e, true
			}
			return c, joinBases(lb, rb), true
		}
	}
	return 1, e, true
}

func joinBases(left, right Expr) Expr {
	switch {
	case left.Equal(one):
		return right
	case right.Equal(one):
		return left
	}
	return product(left, right)
}
