package jsontree

import (
	"io"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/serialization"
)

const indent = "    "

// Document owns the root of a JSON tree.
type Document struct {
	root *Value
}

// NewDocument returns a document whose root is an empty object.
func NewDocument() *Document {
	return &Document{root: NewObject()}
}

// Parse decodes text into a document. Integer literals stay integers and
// literals with a fraction or exponent become floats.
func Parse(text string) (*Document, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, eris.Wrapf(serialization.ErrParse, "decode: %v", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, eris.Wrap(serialization.ErrParse, "trailing data after document")
	}

	root, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

func (d *Document) Root() *Value {
	return d.root
}

// Text prints the document. Object keys are always sorted; pretty output is
// indented with four spaces.
func (d *Document) Text(pretty bool) (string, error) {
	raw, err := toRaw(d.root)
	if err != nil {
		return "", err
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(raw, "", indent)
	} else {
		out, err = json.Marshal(raw)
	}
	if err != nil {
		return "", eris.Wrap(err, "encode document")
	}
	return string(out), nil
}

func fromRaw(raw any) (*Value, error) {
	switch x := raw.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(x), nil
	case string:
		return NewString(x), nil
	case json.Number:
		return fromNumber(x)
	case float64:
		return NewFloat(x), nil
	case map[string]any:
		obj := NewObject()
		for k, child := range x {
			v, err := fromRaw(child)
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		}
		return obj, nil
	case []any:
		arr := NewArray()
		for _, child := range x {
			v, err := fromRaw(child)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	default:
		return nil, eris.Wrapf(serialization.ErrParse, "unexpected json value %T", raw)
	}
}

func fromNumber(n json.Number) (*Value, error) {
	text := n.String()
	if !strings.ContainsAny(text, ".eE") {
		if i, err := n.Int64(); err == nil {
			return NewInt(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, eris.Wrapf(serialization.ErrParse, "number %q", text)
	}
	return NewFloat(f), nil
}

// toRaw converts the tree into plain Go values the encoder understands. Maps
// are emitted with sorted keys by the encoder. NaN and infinities, which only
// reach the tree through Value.Set, are ErrNotFinite.
func toRaw(v *Value) (any, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, eris.Wrapf(serialization.ErrNotFinite, "encode %v", v.f)
		}
		return v.f, nil
	case KindString:
		return v.s, nil
	case KindObject:
		m := make(map[string]any, len(v.obj))
		for k, child := range v.obj {
			raw, err := toRaw(child)
			if err != nil {
				return nil, eris.Wrapf(err, "key %s", k)
			}
			m[k] = raw
		}
		return m, nil
	case KindArray:
		a := make([]any, len(v.arr))
		for i, child := range v.arr {
			raw, err := toRaw(child)
			if err != nil {
				return nil, eris.Wrapf(err, "element %d", i)
			}
			a[i] = raw
		}
		return a, nil
	default:
		return nil, nil
	}
}

// Equal reports whether two trees hold the same data. Integers and floats with
// the same numeric value compare equal, matching how numbers survive a
// print and parse cycle.
func Equal(a, b *Value) bool {
	if an, ok := a.AsFloat64(); ok {
		bn, ok := b.AsFloat64()
		return ok && an == bn
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}
