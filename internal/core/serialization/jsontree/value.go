// Package jsontree is the JSON backend of the serialization context: a small
// mutable value tree, a document wrapper that parses and prints it, and the
// scope-stack Context that walks it.
package jsontree

import (
	"math"
	"sort"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is one node of a JSON tree. Containers hold child pointers, so a child
// handed out by Get or At stays attached to its parent and can be mutated in
// place.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	obj  map[string]*Value
	arr  []*Value
}

func NewNull() *Value { return &Value{} }

func NewBool(b bool) *Value { return &Value{kind: KindBool, b: b} }

func NewInt(i int64) *Value { return &Value{kind: KindInt, i: i} }

func NewFloat(f float64) *Value { return &Value{kind: KindFloat, f: f} }

func NewString(s string) *Value { return &Value{kind: KindString, s: s} }

func NewObject() *Value { return &Value{kind: KindObject, obj: map[string]*Value{}} }

func NewArray() *Value { return &Value{kind: KindArray, arr: []*Value{}} }

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNull() bool   { return v.kind == KindNull }
func (v *Value) IsObject() bool { return v.kind == KindObject }
func (v *Value) IsArray() bool  { return v.kind == KindArray }

// IsPrimitive reports whether v holds a bool, number or string.
func (v *Value) IsPrimitive() bool {
	switch v.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	default:
		return false
	}
}

// IsEmpty reports whether v is null or a container with no children. Empty
// nodes carry no shape yet and may be turned into any container.
func (v *Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindObject:
		return len(v.obj) == 0
	case KindArray:
		return len(v.arr) == 0
	default:
		return false
	}
}

// Len is the number of object keys or array elements; zero for scalars.
func (v *Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.obj)
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

// Reset turns v into an empty value of the given kind, dropping its contents.
func (v *Value) Reset(kind Kind) {
	*v = Value{kind: kind}
	switch kind {
	case KindObject:
		v.obj = map[string]*Value{}
	case KindArray:
		v.arr = []*Value{}
	}
}

func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	child, ok := v.obj[key]
	return child, ok
}

func (v *Value) At(i int) (*Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nil, false
	}
	return v.arr[i], true
}

// Set stores child under key. v must be an object.
func (v *Value) Set(key string, child *Value) {
	v.obj[key] = child
}

// Append adds child at the end of v. v must be an array.
func (v *Value) Append(child *Value) {
	v.arr = append(v.arr, child)
}

// Remove deletes key and reports whether it was present.
func (v *Value) Remove(key string) bool {
	if v.kind != KindObject {
		return false
	}
	if _, ok := v.obj[key]; !ok {
		return false
	}
	delete(v.obj, key)
	return true
}

// Clear empties a container in place and nulls a scalar.
func (v *Value) Clear() {
	switch v.kind {
	case KindObject:
		clear(v.obj)
	case KindArray:
		for i := range v.arr {
			v.arr[i] = nil
		}
		v.arr = v.arr[:0]
	default:
		v.Reset(KindNull)
	}
}

// Keys returns the object's keys in sorted order.
func (v *Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v *Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsFloat64 accepts both integer and floating point numbers.
func (v *Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsInt64 accepts integers, and floats only when they are integral and fit.
func (v *Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f != math.Trunc(v.f) || v.f < math.MinInt64 || v.f >= math.MaxInt64 {
			return 0, false
		}
		return int64(v.f), true
	default:
		return 0, false
	}
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	out := &Value{kind: v.kind, b: v.b, i: v.i, f: v.f, s: v.s}
	switch v.kind {
	case KindObject:
		out.obj = make(map[string]*Value, len(v.obj))
		for k, child := range v.obj {
			out.obj[k] = child.Clone()
		}
	case KindArray:
		out.arr = make([]*Value, len(v.arr))
		for i, child := range v.arr {
			out.arr[i] = child.Clone()
		}
	}
	return out
}
