package serialization

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
)

// Scalar is the closed set of leaf types a Context stores natively.
type Scalar interface {
	bool | int32 | uint32 | float32 | float64 | string
}

// Write stores v under key using the primitive matching T.
func Write[T Scalar](ctx Context, key string, v T) error {
	switch x := any(v).(type) {
	case bool:
		return ctx.WriteBool(key, x)
	case int32:
		return ctx.WriteInt(key, x)
	case uint32:
		return ctx.WriteUint(key, x)
	case float32:
		return ctx.WriteFloat(key, x)
	case float64:
		return ctx.WriteDouble(key, x)
	case string:
		return ctx.WriteString(key, x)
	}
	panic(fmt.Sprintf("serialization: unreachable scalar %T", v))
}

// Append adds v to the current array using the primitive matching T.
func Append[T Scalar](ctx Context, v T) error {
	switch x := any(v).(type) {
	case bool:
		return ctx.AppendBool(x)
	case int32:
		return ctx.AppendInt(x)
	case uint32:
		return ctx.AppendUint(x)
	case float32:
		return ctx.AppendFloat(x)
	case float64:
		return ctx.AppendDouble(x)
	case string:
		return ctx.AppendString(x)
	}
	panic(fmt.Sprintf("serialization: unreachable scalar %T", v))
}

// Read loads the value stored under key as T.
func Read[T Scalar](ctx Context, key string) (T, error) {
	var zero T
	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case bool:
		out, err = ctx.ReadBool(key)
	case int32:
		out, err = ctx.ReadInt(key)
	case uint32:
		out, err = ctx.ReadUint(key)
	case float32:
		out, err = ctx.ReadFloat(key)
	case float64:
		out, err = ctx.ReadDouble(key)
	case string:
		out, err = ctx.ReadString(key)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// ReadAt loads element i of the current array as T.
func ReadAt[T Scalar](ctx Context, i int) (T, error) {
	var zero T
	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case bool:
		out, err = ctx.ReadBoolAt(i)
	case int32:
		out, err = ctx.ReadIntAt(i)
	case uint32:
		out, err = ctx.ReadUintAt(i)
	case float32:
		out, err = ctx.ReadFloatAt(i)
	case float64:
		out, err = ctx.ReadDoubleAt(i)
	case string:
		out, err = ctx.ReadStringAt(i)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// Codec knows how to persist one Go type either under an object key or as an
// array element. Codecs exist only for the supported types and compositions
// of them; anything else needs its own Codec before it can be saved.
type Codec[T any] struct {
	write  func(ctx Context, key string, v T) error
	append func(ctx Context, v T) error
	read   func(ctx Context, key string) (T, error)
	readAt func(ctx Context, i int) (T, error)
}

func (c Codec[T]) Write(ctx Context, key string, v T) error { return c.write(ctx, key, v) }
func (c Codec[T]) Append(ctx Context, v T) error            { return c.append(ctx, v) }
func (c Codec[T]) Read(ctx Context, key string) (T, error)  { return c.read(ctx, key) }
func (c Codec[T]) ReadAt(ctx Context, i int) (T, error)     { return c.readAt(ctx, i) }

func scalar[T Scalar]() Codec[T] {
	return Codec[T]{
		write:  Write[T],
		append: Append[T],
		read:   Read[T],
		readAt: ReadAt[T],
	}
}

var (
	Bool    = scalar[bool]()
	Int32   = scalar[int32]()
	Uint32  = scalar[uint32]()
	Float32 = scalar[float32]()
	Float64 = scalar[float64]()
	String  = scalar[string]()
)

// closeOnError pops the scope opened by the caller when err is set, so a
// failed element read does not leave the stack unbalanced.
func closeOnError(err error, end func() error) error {
	if err != nil {
		_ = end()
	}
	return err
}

// Slice persists []T as an array, dispatching each element through elem.
func Slice[T any](elem Codec[T]) Codec[[]T] {
	writeElems := func(ctx Context, v []T) error {
		for i, e := range v {
			if err := elem.Append(ctx, e); err != nil {
				return eris.Wrapf(err, "element %d", i)
			}
		}
		return nil
	}
	readElems := func(ctx Context, n int) ([]T, error) {
		out := make([]T, 0, n)
		for i := 0; i < n; i++ {
			e, err := elem.ReadAt(ctx, i)
			if err != nil {
				return nil, eris.Wrapf(err, "element %d", i)
			}
			out = append(out, e)
		}
		return out, nil
	}

	return Codec[[]T]{
		write: func(ctx Context, key string, v []T) error {
			if _, err := ctx.BeginArrayKey(key); err != nil {
				return err
			}
			ctx.Clear()
			if err := closeOnError(writeElems(ctx, v), ctx.EndArray); err != nil {
				return eris.Wrapf(err, "array %q", key)
			}
			return ctx.EndArray()
		},
		append: func(ctx Context, v []T) error {
			if err := ctx.BeginArrayPush(); err != nil {
				return err
			}
			if err := closeOnError(writeElems(ctx, v), ctx.EndArray); err != nil {
				return err
			}
			return ctx.EndArray()
		},
		read: func(ctx Context, key string) ([]T, error) {
			if !ctx.HasKey(key) {
				return nil, eris.Wrapf(ErrKeyNotFound, "array %q", key)
			}
			if !ctx.HasArray(key) {
				return nil, eris.Wrapf(ErrTypeMismatch, "%q is not an array", key)
			}
			n, err := ctx.BeginArrayKey(key)
			if err != nil {
				return nil, err
			}
			out, err := readElems(ctx, n)
			if err = closeOnError(err, ctx.EndArray); err != nil {
				return nil, eris.Wrapf(err, "array %q", key)
			}
			return out, ctx.EndArray()
		},
		readAt: func(ctx Context, i int) ([]T, error) {
			if !ctx.HasArrayAt(i) {
				return nil, eris.Wrapf(ErrTypeMismatch, "element %d is not an array", i)
			}
			n, err := ctx.BeginArrayIndex(i)
			if err != nil {
				return nil, err
			}
			out, err := readElems(ctx, n)
			if err = closeOnError(err, ctx.EndArray); err != nil {
				return nil, err
			}
			return out, ctx.EndArray()
		},
	}
}

// KeyCodec turns map keys into object keys and back.
type KeyCodec[K comparable] struct {
	Format func(K) string
	Parse  func(string) (K, error)
}

var StringKey = KeyCodec[string]{
	Format: func(s string) string { return s },
	Parse:  func(s string) (string, error) { return s, nil },
}

// IntKey stores integer map keys as their decimal text.
func IntKey[K ~int32 | ~uint32 | ~int | ~int64 | ~uint64]() KeyCodec[K] {
	return KeyCodec[K]{
		Format: func(k K) string {
			if k < 0 {
				return strconv.FormatInt(int64(k), 10)
			}
			return strconv.FormatUint(uint64(k), 10)
		},
		Parse: func(s string) (K, error) {
			var zero K
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				k := K(i)
				if int64(k) != i || (k < 0) != (i < 0) {
					return zero, eris.Wrapf(ErrTypeMismatch, "map key %q out of range", s)
				}
				return k, nil
			}
			u, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return zero, eris.Wrapf(ErrTypeMismatch, "map key %q is not an integer", s)
			}
			k := K(u)
			if uint64(k) != u || k < 0 {
				return zero, eris.Wrapf(ErrTypeMismatch, "map key %q out of range", s)
			}
			return k, nil
		},
	}
}

// Map persists map[K]V as an object. Entries are written in key order.
func Map[K comparable, V any](keys KeyCodec[K], val Codec[V]) Codec[map[K]V] {
	writeEntries := func(ctx Context, m map[K]V) error {
		names := make([]string, 0, len(m))
		byName := make(map[string]V, len(m))
		for k, v := range m {
			name := keys.Format(k)
			names = append(names, name)
			byName[name] = v
		}
		sort.Strings(names)
		for _, name := range names {
			if err := val.Write(ctx, name, byName[name]); err != nil {
				return eris.Wrapf(err, "entry %q", name)
			}
		}
		return nil
	}
	readEntries := func(ctx Context) (map[K]V, error) {
		names := ctx.Keys()
		out := make(map[K]V, len(names))
		for _, name := range names {
			k, err := keys.Parse(name)
			if err != nil {
				return nil, err
			}
			v, err := val.Read(ctx, name)
			if err != nil {
				return nil, eris.Wrapf(err, "entry %q", name)
			}
			out[k] = v
		}
		return out, nil
	}

	return Codec[map[K]V]{
		write: func(ctx Context, key string, m map[K]V) error {
			if err := ctx.BeginObjectKey(key); err != nil {
				return err
			}
			ctx.Clear()
			if err := closeOnError(writeEntries(ctx, m), ctx.EndObject); err != nil {
				return eris.Wrapf(err, "map %q", key)
			}
			return ctx.EndObject()
		},
		append: func(ctx Context, m map[K]V) error {
			if err := ctx.BeginObjectPush(); err != nil {
				return err
			}
			if err := closeOnError(writeEntries(ctx, m), ctx.EndObject); err != nil {
				return err
			}
			return ctx.EndObject()
		},
		read: func(ctx Context, key string) (map[K]V, error) {
			if !ctx.HasKey(key) {
				return nil, eris.Wrapf(ErrKeyNotFound, "map %q", key)
			}
			if !ctx.HasObject(key) {
				return nil, eris.Wrapf(ErrTypeMismatch, "%q is not an object", key)
			}
			if err := ctx.BeginObjectKey(key); err != nil {
				return nil, err
			}
			out, err := readEntries(ctx)
			if err = closeOnError(err, ctx.EndObject); err != nil {
				return nil, eris.Wrapf(err, "map %q", key)
			}
			return out, ctx.EndObject()
		},
		readAt: func(ctx Context, i int) (map[K]V, error) {
			if !ctx.HasObjectAt(i) {
				return nil, eris.Wrapf(ErrTypeMismatch, "element %d is not an object", i)
			}
			if err := ctx.BeginObjectIndex(i); err != nil {
				return nil, err
			}
			out, err := readEntries(ctx)
			if err = closeOnError(err, ctx.EndObject); err != nil {
				return nil, err
			}
			return out, ctx.EndObject()
		},
	}
}

// Object persists a Serializable struct through its own Serialize and
// Deserialize methods, in a nested object.
func Object[T any, PT interface {
	*T
	Serializable
}]() Codec[PT] {
	load := func(ctx Context) (PT, error) {
		v := PT(new(T))
		if err := v.Deserialize(ctx); err != nil {
			return nil, err
		}
		return v, nil
	}

	return Codec[PT]{
		write: func(ctx Context, key string, v PT) error {
			if err := ctx.BeginObjectKey(key); err != nil {
				return err
			}
			if err := closeOnError(v.Serialize(ctx), ctx.EndObject); err != nil {
				return eris.Wrapf(err, "object %q", key)
			}
			return ctx.EndObject()
		},
		append: func(ctx Context, v PT) error {
			if err := ctx.BeginObjectPush(); err != nil {
				return err
			}
			if err := closeOnError(v.Serialize(ctx), ctx.EndObject); err != nil {
				return err
			}
			return ctx.EndObject()
		},
		read: func(ctx Context, key string) (PT, error) {
			if !ctx.HasKey(key) {
				return nil, eris.Wrapf(ErrKeyNotFound, "object %q", key)
			}
			if !ctx.HasObject(key) {
				return nil, eris.Wrapf(ErrTypeMismatch, "%q is not an object", key)
			}
			if err := ctx.BeginObjectKey(key); err != nil {
				return nil, err
			}
			v, err := load(ctx)
			if err = closeOnError(err, ctx.EndObject); err != nil {
				return nil, eris.Wrapf(err, "object %q", key)
			}
			return v, ctx.EndObject()
		},
		readAt: func(ctx Context, i int) (PT, error) {
			if !ctx.HasObjectAt(i) {
				return nil, eris.Wrapf(ErrTypeMismatch, "element %d is not an object", i)
			}
			if err := ctx.BeginObjectIndex(i); err != nil {
				return nil, err
			}
			v, err := load(ctx)
			if err = closeOnError(err, ctx.EndObject); err != nil {
				return nil, err
			}
			return v, ctx.EndObject()
		},
	}
}

// WriteObject and ReadObject scope a Serializable value under key in place,
// without allocating; used for embedded value fields.
func WriteObject(ctx Context, key string, v Serializable) error {
	if err := ctx.BeginObjectKey(key); err != nil {
		return err
	}
	if err := closeOnError(v.Serialize(ctx), ctx.EndObject); err != nil {
		return eris.Wrapf(err, "object %q", key)
	}
	return ctx.EndObject()
}

func ReadObject(ctx Context, key string, v Serializable) error {
	if !ctx.HasKey(key) {
		return eris.Wrapf(ErrKeyNotFound, "object %q", key)
	}
	if !ctx.HasObject(key) {
		return eris.Wrapf(ErrTypeMismatch, "%q is not an object", key)
	}
	if err := ctx.BeginObjectKey(key); err != nil {
		return err
	}
	if err := closeOnError(v.Deserialize(ctx), ctx.EndObject); err != nil {
		return eris.Wrapf(err, "object %q", key)
	}
	return ctx.EndObject()
}
