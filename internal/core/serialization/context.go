// Package serialization defines the format-independent scoped context that
// every persisted engine object walks, in the same code path, to save and to
// load itself.
//
// A Context keeps a stack of nodes. The top of the stack is the current node;
// Begin* calls push a child, End* calls pop it. Writes land on the current
// node, which is coerced into an object when it is still empty.
package serialization

// Context is the stack-based reader/writer over a hierarchical document.
//
// Empty (null or zero-length) nodes are treated as untyped: they are turned
// into objects by BeginObjectKey and by keyed writes. A non-empty node of
// another shape yields ErrWrongParent.
type Context interface {
	// Reading reports the direction fixed at construction.
	Reading() bool

	// BeginObjectKey enters the object under key, creating it when missing and
	// replacing any non-object value stored there.
	BeginObjectKey(key string) error
	// BeginObjectIndex enters the i-th element of the current array, turning it
	// into an object if it is not one already.
	BeginObjectIndex(i int) error
	// BeginObjectPush appends a new object to the current array and enters it.
	BeginObjectPush() error
	EndObject() error

	// BeginArrayKey enters the array under key and returns its length. A
	// missing key or a non-array value is replaced by an empty array.
	BeginArrayKey(key string) (int, error)
	BeginArrayIndex(i int) (int, error)
	BeginArrayPush() error
	EndArray() error

	WriteBool(key string, v bool) error
	WriteInt(key string, v int32) error
	WriteUint(key string, v uint32) error
	WriteFloat(key string, v float32) error
	WriteDouble(key string, v float64) error
	WriteString(key string, v string) error

	AppendBool(v bool) error
	AppendInt(v int32) error
	AppendUint(v uint32) error
	AppendFloat(v float32) error
	AppendDouble(v float64) error
	AppendString(v string) error

	ReadBool(key string) (bool, error)
	ReadInt(key string) (int32, error)
	ReadUint(key string) (uint32, error)
	ReadFloat(key string) (float32, error)
	ReadDouble(key string) (float64, error)
	ReadString(key string) (string, error)

	ReadBoolAt(i int) (bool, error)
	ReadIntAt(i int) (int32, error)
	ReadUintAt(i int) (uint32, error)
	ReadFloatAt(i int) (float32, error)
	ReadDoubleAt(i int) (float64, error)
	ReadStringAt(i int) (string, error)

	// HasKey, HasObject and HasArray never fail; they report false when the
	// current node is not an object.
	HasKey(key string) bool
	HasObject(key string) bool
	HasArray(key string) bool
	// HasObjectAt and HasArrayAt probe element i of the current array.
	HasObjectAt(i int) bool
	HasArrayAt(i int) bool

	IsObject() bool
	IsArray() bool
	IsPrimitive() bool

	// Remove deletes key from the current object and reports whether it existed.
	Remove(key string) bool
	// Clear empties the current node in place, keeping its shape.
	Clear()
	// Size is the number of elements of an array or keys of an object; zero for
	// anything else.
	Size() int
	// Keys lists the keys of the current object in sorted order.
	Keys() []string
	// Depth is the height of the scope stack; the root alone is depth 1.
	Depth() int
}

// Serializable is implemented by every type that persists itself through a
// Context. The same pair of methods is used for every backend.
type Serializable interface {
	Serialize(ctx Context) error
	Deserialize(ctx Context) error
}
