package components

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/serialization"
)

const TransformTypeName = "Transform3D"

// Transform3D places its entity in the world. The position is persisted as
// flat x, y and z fields; the euler rotation, in degrees, as a nested
// "rotation" object.
type Transform3D struct {
	ecs.Base

	position Vector3
	rotation Vector3
}

func NewTransform3D() ecs.Component {
	return &Transform3D{}
}

func (t *Transform3D) Position() Vector3 { return t.position }

func (t *Transform3D) SetPosition(p Vector3) { t.position = p }

func (t *Transform3D) Rotation() Vector3 { return t.rotation }

func (t *Transform3D) SetRotation(r Vector3) { t.rotation = r }

func (t *Transform3D) Translate(delta Vector3) {
	t.position = t.position.Add(delta)
}

// RotateDegrees adds delta to the rotation. Angles past a full turn in either
// direction are wrapped with math.Mod; exactly 360 and -360 are kept, so the
// result lies in [-360, 360].
func (t *Transform3D) RotateDegrees(delta Vector3) {
	r := t.rotation.Add(delta)
	t.rotation = Vector3{X: wrapAngle(r.X), Y: wrapAngle(r.Y), Z: wrapAngle(r.Z)}
}

func wrapAngle(a float32) float32 {
	if a > 360 || a < -360 {
		return float32(math.Mod(float64(a), 360))
	}
	return a
}

func (t *Transform3D) Serialize(ctx serialization.Context) error {
	if err := t.Base.Serialize(ctx); err != nil {
		return err
	}
	if err := writeXYZ(ctx, t.position); err != nil {
		return err
	}
	return serialization.WriteObject(ctx, "rotation", &t.rotation)
}

// Deserialize requires the position; a missing rotation reads as zero.
func (t *Transform3D) Deserialize(ctx serialization.Context) error {
	if err := t.Base.Deserialize(ctx); err != nil {
		return err
	}
	pos, err := readXYZ(ctx)
	if err != nil {
		return eris.Wrap(err, "transform position")
	}
	t.position = pos

	t.rotation = Vector3{}
	if ctx.HasKey("rotation") {
		if err := serialization.ReadObject(ctx, "rotation", &t.rotation); err != nil {
			return eris.Wrap(err, "transform rotation")
		}
	}
	return nil
}
