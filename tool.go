package cliph

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	// Unsupported is set when a derivative could not be taken symbolically.
	Unsupported bool `json:"unsupported,omitempty"`
}

type toolParams map[string]interface{}

// expr reads an expression parameter given either as infix text or as a
// JSON tree. Text is parsed as LaTeX when the "latex" parameter is true.
func (p toolParams) expr(key string) (Expr, error) {
	v, ok := p[key]
	if !ok {
		return nil, errors.Errorf("missing param: %s", key)
	}
	switch val := v.(type) {
	case string:
		parse := Parse
		if latex, _ := p["latex"].(bool); latex {
			parse = ParseLaTeX
		}
		e, err := parse(val)
		if err != nil {
			return nil, errors.Wrapf(err, "param %s", key)
		}
		return e, nil
	case map[string]interface{}:
		e, err := FromJSON(val)
		if err != nil {
			return nil, errors.Wrapf(err, "param %s", key)
		}
		return e, nil
	}
	return nil, errors.Errorf("param %s must be a string or an expression object", key)
}

func (p toolParams) str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", errors.Errorf("missing param: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("param %s must be a string", key)
	}
	return s, nil
}

// number reads an optional numeric parameter, returning def when absent.
func (p toolParams) number(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, errors.Errorf("param %s must be a number", key)
	}
	return f, nil
}

func (p toolParams) env(key string) (Env, error) {
	v, ok := p[key]
	if !ok {
		return Env{}, nil
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("param %s must be an object of numbers", key)
	}
	env := make(Env, len(raw))
	for _, name := range maps.Keys(raw) {
		f, ok := raw[name].(float64)
		if !ok {
			return nil, errors.Errorf("param %s.%s must be a number", key, name)
		}
		env[name] = f
	}
	return env, nil
}

func (p toolParams) sampleOptions() (SampleOptions, error) {
	opts := DefaultSampleOptions()
	if v, ok := p["var"]; ok {
		s, ok := v.(string)
		if !ok {
			return opts, errors.New("param var must be a string")
		}
		opts.Var = s
	}
	if r, ok := p["range"].(string); ok {
		name, lo, hi, err := ParseRange(r)
		if err != nil {
			return opts, err
		}
		opts.Var, opts.XMin, opts.XMax = name, lo, hi
	}
	var err error
	fields := []struct {
		key string
		dst *float64
	}{
		{"x_min", &opts.XMin},
		{"x_max", &opts.XMax},
		{"y_min", &opts.YMin},
		{"y_max", &opts.YMax},
	}
	for _, f := range fields {
		if *f.dst, err = p.number(f.key, *f.dst); err != nil {
			return opts, err
		}
	}
	points, err := p.number("points", float64(opts.Points))
	if err != nil {
		return opts, err
	}
	opts.Points = int(points)
	if opts.Env, err = p.env("env"); err != nil {
		return opts, err
	}
	return opts, nil
}

func HandleToolCall(req ToolRequest) ToolResponse {
	params := toolParams(req.Params)
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	respond := func(e Expr) ToolResponse {
		return ToolResponse{
			Result:      e.toJSON(),
			LaTeX:       LaTeX(e),
			String:      String(e),
			Unsupported: IsDiffUnsupported(e),
		}
	}

	switch req.Tool {
	case "parse":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(e)

	case "simplify":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(Simplify(e))

	case "diff":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := params.str("var")
		if err != nil {
			return fail(err)
		}
		n, err := params.number("n", 1)
		if err != nil {
			return fail(err)
		}
		if n < 1 || n != float64(int(n)) {
			return ToolResponse{Error: "param n must be a positive integer"}
		}
		return respond(DiffN(e, v, int(n)))

	case "latex":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		if raw, _ := params["raw"].(bool); !raw {
			e = Simplify(e)
		}
		return ToolResponse{Result: LaTeX(e), LaTeX: LaTeX(e), String: String(e)}

	case "latex_to_infix":
		text, err := params.str("text")
		if err != nil {
			return fail(err)
		}
		infix := LaTeXToInfix(text)
		return ToolResponse{Result: infix, String: infix}

	case "eval":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		env, err := params.env("env")
		if err != nil {
			return fail(err)
		}
		v, err := Eval(e, env)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: v, String: fmt.Sprintf("%.10g", v)}

	case "sample":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		opts, err := params.sampleOptions()
		if err != nil {
			return fail(err)
		}
		segs, err := Sample(Simplify(e), opts)
		if err != nil {
			return fail(err)
		}
		n := 0
		for _, s := range segs {
			n += len(s)
		}
		return ToolResponse{Result: segs, String: fmt.Sprintf("%d segments, %d points", len(segs), n)}

	case "subs":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := params.str("var")
		if err != nil {
			return fail(err)
		}
		value, err := params.expr("value")
		if err != nil {
			return fail(err)
		}
		return respond(Simplify(Sub(e, v, value)))

	case "free_symbols":
		e, err := params.expr("expr")
		if err != nil {
			return fail(err)
		}
		syms := FreeSymbols(e)
		return ToolResponse{Result: syms, String: strings.Join(syms, ", ")}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolNames lists the tools HandleToolCall accepts, sorted.
func ToolNames() []string {
	names := make([]string, 0, len(toolSpecs))
	for _, t := range toolSpecs {
		names = append(names, t["name"].(string))
	}
	slices.Sort(names)
	return names
}

const exprDoc = "infix string (LaTeX when latex=true) or expression object"

var toolSpecs = []map[string]interface{}{
	ts("parse", "Parse an expression without simplifying it. "+exprDoc, []string{"expr"}, map[string]string{"expr": "string", "latex": "boolean"}),
	ts("simplify", "Canonicalize an expression", []string{"expr"}, map[string]string{"expr": "string", "latex": "boolean"}),
	ts("diff", "Derivative d/dvar. Optional n for repeated differentiation", []string{"expr", "var"}, map[string]string{"expr": "string", "var": "string", "n": "integer", "latex": "boolean"}),
	ts("latex", "Render as LaTeX. Set raw to skip simplification", []string{"expr"}, map[string]string{"expr": "string", "raw": "boolean", "latex": "boolean"}),
	ts("latex_to_infix", "Rewrite LaTeX math text into infix syntax", []string{"text"}, map[string]string{"text": "string"}),
	ts("eval", "Evaluate numerically. Unbound variables are 0", []string{"expr"}, map[string]string{"expr": "string", "env": "object", "latex": "boolean"}),
	ts("sample", "Sample y=f(var) into drawable segments. Optional range like x=-5..5", []string{"expr"}, map[string]string{
		"expr": "string", "var": "string", "range": "string", "x_min": "number", "x_max": "number",
		"y_min": "number", "y_max": "number", "points": "integer", "env": "object",
	}),
	ts("subs", "Substitute var with value and simplify", []string{"expr", "var", "value"}, map[string]string{"expr": "string", "var": "string", "value": "string"}),
	ts("free_symbols", "Return free symbol names, sorted", []string{"expr"}, map[string]string{"expr": "string"}),
	ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
}

func MCPToolSpec() string {
	spec := map[string]interface{}{"tools": toolSpecs}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
