package cliph_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/njchilds90/cliph"
)

func mustParse(t *testing.T, text string) cliph.Expr {
	t.Helper()
	e, err := cliph.Parse(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return e
}

func simplified(t *testing.T, text string) cliph.Expr {
	t.Helper()
	return cliph.Simplify(mustParse(t, text))
}

func assertEqual(t *testing.T, want, got cliph.Expr) {
	t.Helper()
	if !cliph.Equal(want, got) {
		t.Errorf("want %s, got %s", cliph.String(want), cliph.String(got))
	}
}

var (
	x = cliph.S("x")
	y = cliph.S("y")
	z = cliph.S("z")
)

// ============================================================
// Parser tests
// ============================================================

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		text string
		want cliph.Expr
	}{
		{"1 + 2 * 3", cliph.AddOf(cliph.N(1), cliph.MulOf(cliph.N(2), cliph.N(3)))},
		{"1 - 2 - 3", cliph.SubOf(cliph.SubOf(cliph.N(1), cliph.N(2)), cliph.N(3))},
		{"8 / 4 / 2", cliph.DivOf(cliph.DivOf(cliph.N(8), cliph.N(4)), cliph.N(2))},
		{"2 * x^3", cliph.MulOf(cliph.N(2), cliph.PowOf(x, cliph.N(3)))},
		{"(1 + 2) * 3", cliph.MulOf(cliph.AddOf(cliph.N(1), cliph.N(2)), cliph.N(3))},
		{"-x^2", cliph.PowOf(cliph.Negate(x), cliph.N(2))},
		{"2^-1", cliph.PowOf(cliph.N(2), cliph.Negate(cliph.N(1)))},
		{"--x", cliph.Negate(cliph.Negate(x))},
		{"sin(x + 1)", cliph.SinOf(cliph.AddOf(x, cliph.N(1)))},
		{"  3.25  ", cliph.N(3.25)},
		{".5", cliph.N(0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assertEqual(t, tt.want, mustParse(t, tt.text))
		})
	}
}

func TestParse_ImplicitMultiplication(t *testing.T) {
	pairs := [][2]string{
		{"2x", "2*x"},
		{"2(x+1)", "2*(x+1)"},
		{"(x+1)(x-1)", "(x+1)*(x-1)"},
		{"3 sin(x)", "3*sin(x)"},
		{"x y", "x*y"},
	}
	for _, p := range pairs {
		assertEqual(t, mustParse(t, p[1]), mustParse(t, p[0]))
	}
}

func TestParse_Functions(t *testing.T) {
	e := mustParse(t, "foo(x)")
	f, ok := e.(*cliph.Func)
	if !ok {
		t.Fatalf("want *Func, got %T", e)
	}
	if f.FuncName() != "foo" || f.Func().Kind != cliph.FuncOpaque {
		t.Errorf("want opaque foo, got %+v", f.Func())
	}
	if k := mustParse(t, "cos(x)").(*cliph.Func).Func().Kind; k != cliph.FuncCos {
		t.Errorf("want FuncCos, got %v", k)
	}
	// An identifier directly followed by '(' is always a call.
	if _, ok := mustParse(t, "x (y)").(*cliph.Func); !ok {
		t.Error("want x (y) to parse as a call")
	}
	if f, ok := mustParse(t, "x(y)").(*cliph.Func); !ok || f.FuncName() != "x" {
		t.Error("want x(y) to parse as a call to x")
	}
	assertEqual(t, cliph.MulOf(x, y), mustParse(t, "x*(y)"))
	if e := mustParse(t, "_tmp1"); !cliph.Equal(e, cliph.S("_tmp1")) {
		t.Errorf("want symbol _tmp1, got %s", cliph.String(e))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		text string
		kind cliph.ErrorKind
		pos  int
	}{
		{"2 +", cliph.UnexpectedEnd, 3},
		{"", cliph.UnexpectedEnd, 0},
		{"#", cliph.UnexpectedCharacter, 0},
		{"(x + 1", cliph.ExpectedClosingParen, 6},
		{"sin(x", cliph.ExpectedClosingParenAfterCall, 5},
		{"1.2.3", cliph.InvalidNumericLiteral, 0},
		{"x )", cliph.TrailingInput, 2},
		{"a^b^c", cliph.TrailingInput, 3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := cliph.Parse(tt.text)
			var pe *cliph.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("want *ParseError, got %v", err)
			}
			if pe.Kind != tt.kind {
				t.Errorf("want kind %v, got %v", tt.kind, pe.Kind)
			}
			if pe.Pos != tt.pos {
				t.Errorf("want offset %d, got %d", tt.pos, pe.Pos)
			}
		})
	}
}

func TestParse_ErrorDetails(t *testing.T) {
	_, err := cliph.Parse("x + €")
	pe, ok := err.(*cliph.ParseError)
	if !ok || pe.Char != '€' {
		t.Fatalf("want unexpected '€', got %v", err)
	}
	if !strings.Contains(pe.Error(), "€") {
		t.Errorf("want message to name the character, got %s", pe.Error())
	}

	_, err = cliph.Parse("1..2")
	pe, ok = err.(*cliph.ParseError)
	if !ok || pe.Literal != "1..2" {
		t.Fatalf("want invalid literal 1..2, got %v", err)
	}
}

func TestParse_NestingLimit(t *testing.T) {
	ok := strings.Repeat("(", cliph.MaxDepth) + "x" + strings.Repeat(")", cliph.MaxDepth)
	if _, err := cliph.Parse(ok); err != nil {
		t.Errorf("want %d levels accepted, got %v", cliph.MaxDepth, err)
	}

	for _, text := range []string{
		strings.Repeat("(", cliph.MaxDepth+1) + "x" + strings.Repeat(")", cliph.MaxDepth+1),
		strings.Repeat("-", 10*cliph.MaxDepth) + "x",
		strings.Repeat("sin(", cliph.MaxDepth+1) + "x" + strings.Repeat(")", cliph.MaxDepth+1),
	} {
		_, err := cliph.Parse(text)
		pe, isParse := err.(*cliph.ParseError)
		if !isParse || pe.Kind != cliph.NestingTooDeep {
			t.Errorf("want NestingTooDeep, got %v", err)
		}
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("want panic")
		}
	}()
	cliph.MustParse("(")
}

func TestParseLaTeX(t *testing.T) {
	e, err := cliph.ParseLaTeX(`$\frac{x}{2} + \sin(x)$`)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, cliph.AddOf(cliph.DivOf(x, cliph.N(2)), cliph.SinOf(x)), e)
}
