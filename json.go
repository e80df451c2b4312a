package cliph

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// maxJSONDepth bounds the nesting accepted by FromJSON.
const maxJSONDepth = 4 * MaxDepth

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val}
}

func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

func (u *Unary) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": u.exprType(), "arg": u.arg.toJSON()}
}

func (b *Binary) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": b.exprType(), "left": b.left.toJSON(), "right": b.right.toJSON()}
}

func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.fn.Name, "arg": f.arg.toJSON()}
}

// ToJSON encodes e as a JSON tree.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	if err != nil {
		return "", errors.Wrap(err, "encode expression")
	}
	return string(b), nil
}

// JSONTree returns the decoded-JSON form of e, as produced by
// json.Unmarshal into an interface{}.
func JSONTree(e Expr) map[string]interface{} { return e.toJSON() }

var binaryByName = map[string]BinaryOp{
	"add": OpAdd,
	"sub": OpSub,
	"mul": OpMul,
	"div": OpDiv,
	"pow": OpPow,
}

// FromJSON decodes a tree produced by ToJSON. The result is not simplified.
func FromJSON(data map[string]interface{}) (Expr, error) {
	return fromJSON(data, 0)
}

func fromJSON(data map[string]interface{}, depth int) (Expr, error) {
	if data == nil {
		return nil, errors.New("expression must be an object")
	}
	if depth > maxJSONDepth {
		return nil, errors.Errorf("expression nested deeper than %d", maxJSONDepth)
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, errors.New("field 'type' must be a non-empty string")
	}

	sub := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, errors.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := fromJSON(m, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", typ, field)
		}
		return e, nil
	}
	name := func() (string, error) {
		s, ok := data["name"].(string)
		if !ok || s == "" {
			return "", errors.Errorf("%s: 'name' must be a non-empty string", typ)
		}
		return s, nil
	}

	switch typ {
	case "num":
		v, ok := data["value"].(float64)
		if !ok {
			return nil, errors.New("num: 'value' must be a number")
		}
		return N(v), nil

	case "sym":
		s, err := name()
		if err != nil {
			return nil, err
		}
		if !isIdent(s) {
			return nil, errors.Errorf("sym: invalid identifier %q", s)
		}
		return S(s), nil

	case "neg":
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return Negate(arg), nil

	case "func":
		s, err := name()
		if err != nil {
			return nil, err
		}
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return Call(s, arg), nil
	}

	op, ok := binaryByName[typ]
	if !ok {
		return nil, errors.Errorf("unknown expression type: %s", typ)
	}
	left, err := sub("left")
	if err != nil {
		return nil, err
	}
	right, err := sub("right")
	if err != nil {
		return nil, err
	}
	return binaryOf(op, left, right), nil
}
