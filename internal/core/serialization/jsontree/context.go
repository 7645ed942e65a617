package jsontree

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/serialization"
)

var _ serialization.Context = (*Context)(nil)

// Context walks a Document with a stack of nodes. The bottom of the stack is
// always the document root.
type Context struct {
	doc     *Document
	stack   []*Value
	reading bool
}

// NewWriter returns a context in writing mode over a fresh document.
func NewWriter() *Context {
	return newContext(NewDocument(), false)
}

// NewReader returns a context in reading mode over doc.
func NewReader(doc *Document) *Context {
	return newContext(doc, true)
}

func newContext(doc *Document, reading bool) *Context {
	return &Context{
		doc:     doc,
		stack:   []*Value{doc.Root()},
		reading: reading,
	}
}

func (c *Context) Reading() bool { return c.reading }

func (c *Context) Document() *Document { return c.doc }

func (c *Context) Root() *Value { return c.stack[0] }

func (c *Context) Current() *Value { return c.stack[len(c.stack)-1] }

func (c *Context) Depth() int { return len(c.stack) }

func (c *Context) push(v *Value) { c.stack = append(c.stack, v) }

// objectParent returns the current node as an object, coercing an empty node.
func (c *Context) objectParent(op string) (*Value, error) {
	cur := c.Current()
	if cur.IsObject() {
		return cur, nil
	}
	if cur.IsEmpty() {
		cur.Reset(KindObject)
		return cur, nil
	}
	return nil, eris.Wrapf(serialization.ErrWrongParent, "%s on %s node", op, cur.Kind())
}

// arrayParent returns the current node as an array. Only a null node is turned
// into an array; an empty object keeps its shape.
func (c *Context) arrayParent(op string) (*Value, error) {
	cur := c.Current()
	if cur.IsArray() {
		return cur, nil
	}
	if cur.IsNull() {
		cur.Reset(KindArray)
		return cur, nil
	}
	return nil, eris.Wrapf(serialization.ErrWrongParent, "%s on %s node", op, cur.Kind())
}

// indexedChild resolves element i of the current array for Begin*Index.
func (c *Context) indexedChild(op string, i int) (*Value, error) {
	cur := c.Current()
	if !cur.IsArray() && !cur.IsEmpty() {
		return nil, eris.Wrapf(serialization.ErrWrongParent, "%s on %s node", op, cur.Kind())
	}
	child, ok := cur.At(i)
	if !ok {
		return nil, eris.Wrapf(serialization.ErrIndexOutOfRange, "%s(%d) with size %d", op, i, cur.Len())
	}
	return child, nil
}

func (c *Context) BeginObjectKey(key string) error {
	parent, err := c.objectParent("begin object")
	if err != nil {
		return err
	}
	child, ok := parent.Get(key)
	if !ok || !child.IsObject() {
		child = NewObject()
		parent.Set(key, child)
	}
	c.push(child)
	return nil
}

func (c *Context) BeginObjectIndex(i int) error {
	child, err := c.indexedChild("begin object index", i)
	if err != nil {
		return err
	}
	if !child.IsObject() {
		if !child.IsEmpty() {
			return eris.Wrapf(serialization.ErrTypeMismatch, "element %d is %s, not object", i, child.Kind())
		}
		child.Reset(KindObject)
	}
	c.push(child)
	return nil
}

func (c *Context) BeginObjectPush() error {
	parent, err := c.arrayParent("begin object push")
	if err != nil {
		return err
	}
	child := NewObject()
	parent.Append(child)
	c.push(child)
	return nil
}

func (c *Context) EndObject() error {
	if len(c.stack) <= 1 || !c.Current().IsObject() {
		return eris.Wrap(serialization.ErrNoMatchingBegin, "end object")
	}
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

func (c *Context) BeginArrayKey(key string) (int, error) {
	parent, err := c.objectParent("begin array")
	if err != nil {
		return 0, err
	}
	child, ok := parent.Get(key)
	if !ok || !child.IsArray() {
		child = NewArray()
		parent.Set(key, child)
	}
	c.push(child)
	return child.Len(), nil
}

func (c *Context) BeginArrayIndex(i int) (int, error) {
	child, err := c.indexedChild("begin array index", i)
	if err != nil {
		return 0, err
	}
	if !child.IsArray() {
		if !child.IsEmpty() {
			return 0, eris.Wrapf(serialization.ErrTypeMismatch, "element %d is %s, not array", i, child.Kind())
		}
		child.Reset(KindArray)
	}
	c.push(child)
	return child.Len(), nil
}

func (c *Context) BeginArrayPush() error {
	parent, err := c.arrayParent("begin array push")
	if err != nil {
		return err
	}
	child := NewArray()
	parent.Append(child)
	c.push(child)
	return nil
}

func (c *Context) EndArray() error {
	if len(c.stack) <= 1 || !c.Current().IsArray() {
		return eris.Wrap(serialization.ErrNoMatchingBegin, "end array")
	}
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

func (c *Context) write(key string, v *Value) error {
	parent, err := c.objectParent("write " + v.Kind().String())
	if err != nil {
		return eris.Wrapf(err, "key %q", key)
	}
	parent.Set(key, v)
	return nil
}

func (c *Context) WriteBool(key string, v bool) error     { return c.write(key, NewBool(v)) }
func (c *Context) WriteInt(key string, v int32) error     { return c.write(key, NewInt(int64(v))) }
func (c *Context) WriteUint(key string, v uint32) error   { return c.write(key, NewInt(int64(v))) }
func (c *Context) WriteFloat(key string, v float32) error { return c.WriteDouble(key, float64(v)) }
func (c *Context) WriteDouble(key string, v float64) error {
	if err := checkFinite("key "+key, v); err != nil {
		return err
	}
	return c.write(key, NewFloat(v))
}
func (c *Context) WriteString(key string, v string) error { return c.write(key, NewString(v)) }

func (c *Context) append(v *Value) error {
	parent, err := c.arrayParent("append " + v.Kind().String())
	if err != nil {
		return err
	}
	parent.Append(v)
	return nil
}

func (c *Context) AppendBool(v bool) error     { return c.append(NewBool(v)) }
func (c *Context) AppendInt(v int32) error     { return c.append(NewInt(int64(v))) }
func (c *Context) AppendUint(v uint32) error   { return c.append(NewInt(int64(v))) }
func (c *Context) AppendFloat(v float32) error { return c.AppendDouble(float64(v)) }
func (c *Context) AppendDouble(v float64) error {
	if err := checkFinite("element", v); err != nil {
		return err
	}
	return c.append(NewFloat(v))
}
func (c *Context) AppendString(v string) error { return c.append(NewString(v)) }

func (c *Context) lookup(key string) (*Value, error) {
	v, ok := c.Current().Get(key)
	if !ok {
		return nil, eris.Wrapf(serialization.ErrKeyNotFound, "key %q", key)
	}
	return v, nil
}

func (c *Context) lookupAt(i int) (*Value, error) {
	cur := c.Current()
	if !cur.IsArray() {
		return nil, eris.Wrapf(serialization.ErrWrongParent, "read at %d on %s node", i, cur.Kind())
	}
	v, ok := cur.At(i)
	if !ok {
		return nil, eris.Wrapf(serialization.ErrIndexOutOfRange, "read at %d with size %d", i, cur.Len())
	}
	return v, nil
}

func mismatch(where string, v *Value, want string) error {
	return eris.Wrapf(serialization.ErrTypeMismatch, "%s holds %s, want %s", where, v.Kind(), want)
}

func toBool(where string, v *Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, mismatch(where, v, "bool")
	}
	return b, nil
}

func toInt(where string, v *Value) (int32, error) {
	i, ok := v.AsInt64()
	if !ok || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, mismatch(where, v, "int32")
	}
	return int32(i), nil
}

func toUint(where string, v *Value) (uint32, error) {
	i, ok := v.AsInt64()
	if !ok || i < 0 || i > math.MaxUint32 {
		return 0, mismatch(where, v, "uint32")
	}
	return uint32(i), nil
}

// JSON has no NaN or infinity.
func checkFinite(where string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return eris.Wrapf(serialization.ErrNotFinite, "%s: %v", where, f)
	}
	return nil
}

func toFloat(where string, v *Value) (float32, error) {
	f, ok := v.AsFloat64()
	if !ok || math.Abs(f) > math.MaxFloat32 {
		return 0, mismatch(where, v, "float")
	}
	return float32(f), nil
}

func toDouble(where string, v *Value) (float64, error) {
	f, ok := v.AsFloat64()
	if !ok {
		return 0, mismatch(where, v, "double")
	}
	return f, nil
}

func toString(where string, v *Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", mismatch(where, v, "string")
	}
	return s, nil
}

func readKey[T any](c *Context, key string, conv func(string, *Value) (T, error)) (T, error) {
	v, err := c.lookup(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return conv("key "+key, v)
}

func readIndex[T any](c *Context, i int, conv func(string, *Value) (T, error)) (T, error) {
	v, err := c.lookupAt(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return conv("element", v)
}

func (c *Context) ReadBool(key string) (bool, error)      { return readKey(c, key, toBool) }
func (c *Context) ReadInt(key string) (int32, error)      { return readKey(c, key, toInt) }
func (c *Context) ReadUint(key string) (uint32, error)    { return readKey(c, key, toUint) }
func (c *Context) ReadFloat(key string) (float32, error)  { return readKey(c, key, toFloat) }
func (c *Context) ReadDouble(key string) (float64, error) { return readKey(c, key, toDouble) }
func (c *Context) ReadString(key string) (string, error)  { return readKey(c, key, toString) }

func (c *Context) ReadBoolAt(i int) (bool, error)      { return readIndex(c, i, toBool) }
func (c *Context) ReadIntAt(i int) (int32, error)      { return readIndex(c, i, toInt) }
func (c *Context) ReadUintAt(i int) (uint32, error)    { return readIndex(c, i, toUint) }
func (c *Context) ReadFloatAt(i int) (float32, error)  { return readIndex(c, i, toFloat) }
func (c *Context) ReadDoubleAt(i int) (float64, error) { return readIndex(c, i, toDouble) }
func (c *Context) ReadStringAt(i int) (string, error)  { return readIndex(c, i, toString) }

func (c *Context) HasKey(key string) bool {
	_, ok := c.Current().Get(key)
	return ok
}

func (c *Context) HasObject(key string) bool {
	v, ok := c.Current().Get(key)
	return ok && v.IsObject()
}

func (c *Context) HasArray(key string) bool {
	v, ok := c.Current().Get(key)
	return ok && v.IsArray()
}

func (c *Context) HasObjectAt(i int) bool {
	v, ok := c.Current().At(i)
	return ok && v.IsObject()
}

func (c *Context) HasArrayAt(i int) bool {
	v, ok := c.Current().At(i)
	return ok && v.IsArray()
}

func (c *Context) IsObject() bool    { return c.Current().IsObject() }
func (c *Context) IsArray() bool     { return c.Current().IsArray() }
func (c *Context) IsPrimitive() bool { return c.Current().IsPrimitive() }

func (c *Context) Remove(key string) bool { return c.Current().Remove(key) }

func (c *Context) Clear() { c.Current().Clear() }

func (c *Context) Size() int { return c.Current().Len() }

func (c *Context) Keys() []string { return c.Current().Keys() }

// Text prints the underlying document.
func (c *Context) Text(pretty bool) (string, error) {
	return c.doc.Text(pretty)
}
