package cliph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Env binds variable names to values. Unbound variables evaluate to 0.
type Env map[string]float64

// EvalError reports a function that has no numeric semantics.
type EvalError struct {
	Func string
	Kind FuncKind
}

func (e *EvalError) Error() string {
	if e.Kind == FuncDiffUnsupported {
		return "cannot evaluate: expression contains an unsupported derivative"
	}
	return fmt.Sprintf("cannot evaluate unknown function %q", e.Func)
}

// Eval computes the value of e under env.
func Eval(e Expr, env Env) (float64, error) { return e.Eval(env) }

func (n *Num) Eval(Env) (float64, error) { return n.val, nil }

func (s *Sym) Eval(env Env) (float64, error) { return env[s.name], nil }

func (u *Unary) Eval(env Env) (float64, error) {
	v, err := u.arg.Eval(env)
	return -v, err
}

func (b *Binary) Eval(env Env) (float64, error) {
	l, err := b.left.Eval(env)
	if err != nil {
		return 0, err
	}
	r, err := b.right.Eval(env)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		return l / r, nil
	}
	return math.Pow(l, r), nil
}

func (f *Func) Eval(env Env) (float64, error) {
	v, err := f.arg.Eval(env)
	if err != nil {
		return 0, err
	}
	r, ok := f.fn.Apply(v)
	if !ok {
		return 0, &EvalError{Func: f.fn.Name, Kind: f.fn.Kind}
	}
	return r, nil
}

// ============================================================
// Sampling
// ============================================================

// Point is one sample of a function of one variable.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a run of consecutive samples that can be drawn as one line.
type Segment []Point

// SampleOptions configures Sample. Points is the number of evenly spaced
// samples, ends included. Env supplies values for variables other than Var.
type SampleOptions struct {
	Var        string
	XMin, XMax float64
	YMin, YMax float64
	Points     int
	Env        Env
}

// DefaultSampleOptions samples x over [-10, 10] in steps of 0.1 and keeps
// values within [-10, 10].
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{Var: "x", XMin: -10, XMax: 10, Points: 201, YMin: -10, YMax: 10}
}

// Sample evaluates e along opts.Var and splits the curve into segments of
// consecutive points whose value is finite and within [YMin, YMax].
// Segments with fewer than two points are dropped.
func Sample(e Expr, opts SampleOptions) ([]Segment, error) {
	if opts.Var == "" {
		opts.Var = "x"
	}
	if opts.Points < 2 {
		return nil, errors.Errorf("sample: need at least 2 points, got %d", opts.Points)
	}
	if !(opts.XMin < opts.XMax) {
		return nil, errors.Errorf("sample: empty x range [%g, %g]", opts.XMin, opts.XMax)
	}
	if !(opts.YMin < opts.YMax) {
		return nil, errors.Errorf("sample: empty y range [%g, %g]", opts.YMin, opts.YMax)
	}

	env := make(Env, len(opts.Env)+1)
	for k, v := range opts.Env {
		env[k] = v
	}
	step := (opts.XMax - opts.XMin) / float64(opts.Points-1)

	var (
		segments []Segment
		current  Segment
	)
	flush := func() {
		if len(current) > 1 {
			segments = append(segments, current)
		}
		current = nil
	}
	for i := 0; i < opts.Points; i++ {
		x := opts.XMin + float64(i)*step
		env[opts.Var] = x
		y, err := e.Eval(env)
		if err != nil {
			return nil, errors.Wrapf(err, "sample at %s=%g", opts.Var, x)
		}
		if opts.YMin <= y && y <= opts.YMax {
			current = append(current, Point{X: x, Y: y})
			continue
		}
		flush()
	}
	flush()
	return segments, nil
}

// ParseRange parses a plotting range of the form "x=-5..5".
func ParseRange(s string) (name string, lo, hi float64, err error) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return "", 0, 0, errors.Errorf("range %q: missing '='", s)
	}
	name = strings.TrimSpace(s[:eq])
	if !isIdent(name) {
		return "", 0, 0, errors.Errorf("range %q: invalid variable name %q", s, name)
	}
	bounds := strings.Split(s[eq+1:], "..")
	if len(bounds) != 2 {
		return "", 0, 0, errors.Errorf("range %q: want lo..hi", s)
	}
	if lo, err = strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64); err != nil {
		return "", 0, 0, errors.Wrapf(err, "range %q: lower bound", s)
	}
	if hi, err = strconv.ParseFloat(strings.TrimSpace(bounds[1]), 64); err != nil {
		return "", 0, 0, errors.Wrapf(err, "range %q: upper bound", s)
	}
	return name, lo, hi, nil
}
