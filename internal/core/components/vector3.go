package components

import (
	"fmt"

	"github.com/tetra-engine/tetra/internal/core/serialization"
)

// Vector3 is the serializable leaf value used by transforms and cameras.
type Vector3 struct {
	X, Y, Z float32
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

func (v Vector3) Serialize(ctx serialization.Context) error {
	return writeXYZ(ctx, v)
}

func (v *Vector3) Deserialize(ctx serialization.Context) error {
	out, err := readXYZ(ctx)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func writeXYZ(ctx serialization.Context, v Vector3) error {
	if err := ctx.WriteFloat("x", v.X); err != nil {
		return err
	}
	if err := ctx.WriteFloat("y", v.Y); err != nil {
		return err
	}
	return ctx.WriteFloat("z", v.Z)
}

func readXYZ(ctx serialization.Context) (Vector3, error) {
	var (
		v   Vector3
		err error
	)
	if v.X, err = ctx.ReadFloat("x"); err != nil {
		return Vector3{}, err
	}
	if v.Y, err = ctx.ReadFloat("y"); err != nil {
		return Vector3{}, err
	}
	if v.Z, err = ctx.ReadFloat("z"); err != nil {
		return Vector3{}, err
	}
	return v, nil
}
