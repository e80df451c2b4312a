package cliph_test

import (
	"testing"

	"github.com/njchilds90/cliph"
)

func TestLaTeXToInfix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`\sin(x)`, "sin(x)"},
		{`\cos(x) + \tan(x)`, "cos(x) + tan(x)"},
		{`\log(x)\exp(x)`, "log(x)exp(x)"},
		{`\abs(x)`, "abs(x)"},
		{`$x^2$`, "x^2"},
		{`\frac{1}{2}`, "(1)/(2)"},
		{`\frac { x+1 } { x-1 }`, "( x+1 )/( x-1 )"},
		{`\frac{a}{b} + \frac{c}{d}`, "(a)/(b) + (c)/(d)"},
		{`x + 1`, "x + 1"},
	}
	for _, tt := range tests {
		if got := cliph.LaTeXToInfix(tt.in); got != tt.want {
			t.Errorf("%s: want %q, got %q", tt.in, tt.want, got)
		}
	}
}

// Only one level of braces is matched inside \frac.
func TestLaTeXToInfix_NestedFrac(t *testing.T) {
	got := cliph.LaTeXToInfix(`\frac{\frac{1}{2}}{3}`)
	if want := `(\frac{1)/(2)}{3}`; got != want {
		t.Errorf("want %q, got %q", want, got)
	}
	if _, err := cliph.Parse(got); err == nil {
		t.Error("want nested \\frac to fail parsing")
	}
}
