package cliph

import "math"

// FuncKind enumerates the functions the engine knows how to fold,
// differentiate, render and evaluate.
type FuncKind int

const (
	// FuncOpaque is any name the engine does not recognize. It is carried
	// through simplification and formatting verbatim.
	FuncOpaque FuncKind = iota
	FuncSin
	FuncCos
	FuncTan
	FuncLog
	FuncExp
	FuncAbs
	// FuncDiffUnsupported marks a sub-expression the differentiator could
	// not handle. It is a result, not an error.
	FuncDiffUnsupported
)

// DiffUnsupportedName is the function name of the differentiation sentinel.
const DiffUnsupportedName = "diff_not_supported"

var funcNames = [...]string{
	FuncOpaque:          "",
	FuncSin:             "sin",
	FuncCos:             "cos",
	FuncTan:             "tan",
	FuncLog:             "log",
	FuncExp:             "exp",
	FuncAbs:             "abs",
	FuncDiffUnsupported: DiffUnsupportedName,
}

var funcByName = map[string]FuncKind{
	"sin": FuncSin,
	"cos": FuncCos,
	"tan": FuncTan,
	"log": FuncLog,
	"exp": FuncExp,
	"abs": FuncAbs,
}

func (k FuncKind) String() string { return funcNames[k] }

// Function identifies the function of a Func node. Name is always set; for
// recognized kinds it is the canonical name.
type Function struct {
	Kind FuncKind
	Name string
}

// Lookup resolves a function name. Names outside the recognized set yield
// an opaque function carrying the name as given. DiffUnsupportedName is
// opaque too: only the differentiator creates the sentinel.
func Lookup(name string) Function {
	if k, ok := funcByName[name]; ok {
		return Function{Kind: k, Name: name}
	}
	return Function{Kind: FuncOpaque, Name: name}
}

// Known reports whether the function has numeric semantics.
func (f Function) Known() bool {
	return f.Kind != FuncOpaque && f.Kind != FuncDiffUnsupported
}

// Apply evaluates the function at v. The second result is false for
// functions without numeric semantics.
func (f Function) Apply(v float64) (float64, bool) {
	switch f.Kind {
	case FuncSin:
		return math.Sin(v), true
	case FuncCos:
		return math.Cos(v), true
	case FuncTan:
		return math.Tan(v), true
	case FuncLog:
		return math.Log(v), true
	case FuncExp:
		return math.Exp(v), true
	case FuncAbs:
		return math.Abs(v), true
	}
	return 0, false
}

// fold computes the constant value of f(v) for simplification. Unlike
// Apply it refuses arguments outside the domain (log of a non-positive
// number) and any result that is not finite.
func (f Function) fold(v float64) (float64, bool) {
	if f.Kind == FuncLog && v <= 0 {
		return 0, false
	}
	r, ok := f.Apply(v)
	if !ok || !isFinite(r) {
		return 0, false
	}
	return r, true
}

// latexName returns the control sequence for recognized functions.
func (f Function) latexName() (string, bool) {
	switch f.Kind {
	case FuncSin, FuncCos, FuncTan, FuncLog, FuncExp:
		return `\` + f.Name, true
	}
	return "", false
}
