package cliph_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/njchilds90/cliph"
)

// ============================================================
// Expression model tests
// ============================================================

func TestEqual_Structural(t *testing.T) {
	a := mustParse(t, "sin(x) + 2*y")
	b := mustParse(t, "sin(x) + 2*y")
	if !cliph.Equal(a, b) {
		t.Error("want equal trees")
	}
	if cliph.Hash(a) != cliph.Hash(b) {
		t.Error("want equal hashes for equal trees")
	}

	for _, other := range []string{"sin(y) + 2*y", "2*y + sin(x)", "sin(x) - 2*y", "cos(x) + 2*y"} {
		if cliph.Equal(a, mustParse(t, other)) {
			t.Errorf("want %s distinct", other)
		}
	}
	if cliph.Equal(cliph.N(1), x) || cliph.Equal(x, cliph.N(1)) {
		t.Error("want num and sym distinct")
	}
}

func TestNum_Equality(t *testing.T) {
	if !cliph.Equal(cliph.N(math.Copysign(0, -1)), cliph.N(0)) {
		t.Error("want -0 equal to 0")
	}
	if cliph.Hash(cliph.N(math.Copysign(0, -1))) != cliph.Hash(cliph.N(0)) {
		t.Error("want -0 and 0 to hash alike")
	}
	if math.Signbit(cliph.N(math.Copysign(0, -1)).Value()) {
		t.Error("want -0 stored as 0")
	}
	nan := cliph.N(math.NaN())
	if !cliph.Equal(nan, cliph.N(math.NaN())) {
		t.Error("want NaN equal to itself")
	}
	a, b := 0.1, 0.2
	if cliph.Equal(cliph.N(a+b), cliph.N(0.3)) {
		t.Error("want exact comparison of constants")
	}
}

func TestHash_Distinguishes(t *testing.T) {
	seen := map[uint64]string{}
	for _, text := range []string{"x", "y", "xy", "x*y", "x+y", "y+x", "-x", "1", "2", "f(x)", "g(x)", "f(y)"} {
		h := cliph.Hash(mustParse(t, text))
		if prev, dup := seen[h]; dup {
			t.Errorf("%s and %s hash alike", prev, text)
		}
		seen[h] = text
	}
}

func TestFreeSymbols(t *testing.T) {
	got := cliph.FreeSymbols(mustParse(t, "z*sin(y) + x^2 - f(a) / z"))
	want := []string{"a", "x", "y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
	if got := cliph.FreeSymbols(cliph.N(3)); len(got) != 0 {
		t.Errorf("want no symbols, got %v", got)
	}
}

func TestSub(t *testing.T) {
	e := mustParse(t, "x^2 + sin(x) + y")
	got := cliph.Sub(e, "x", cliph.N(0))
	assertEqual(t, mustParse(t, "0^2 + sin(0) + y"), got)
	// Powers of constants are not folded.
	assertEqual(t, cliph.AddOf(cliph.PowOf(cliph.N(0), cliph.N(2)), y), cliph.Simplify(got))
	// The input is left untouched.
	assertEqual(t, mustParse(t, "x^2 + sin(x) + y"), e)
}

func TestLookup(t *testing.T) {
	for name, kind := range map[string]cliph.FuncKind{
		"sin": cliph.FuncSin, "cos": cliph.FuncCos, "tan": cliph.FuncTan,
		"log": cliph.FuncLog, "exp": cliph.FuncExp, "abs": cliph.FuncAbs,
		"sinh": cliph.FuncOpaque, cliph.DiffUnsupportedName: cliph.FuncOpaque,
	} {
		fn := cliph.Lookup(name)
		if fn.Kind != kind || fn.Name != name {
			t.Errorf("%s: want %v, got %+v", name, kind, fn)
		}
	}
	if cliph.Lookup("sinh").Known() || cliph.Lookup(cliph.DiffUnsupportedName).Known() {
		t.Error("want opaque functions unknown")
	}
	if v, ok := cliph.Lookup("abs").Apply(-2); !ok || v != 2 {
		t.Errorf("want 2, got %g", v)
	}
	if _, ok := cliph.Lookup("sinh").Apply(1); ok {
		t.Error("want no value for opaque function")
	}
}
