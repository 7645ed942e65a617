package components

import (
	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/events"
	"github.com/tetra-engine/tetra/internal/core/serialization"
)

const CameraTypeName = "Camera3D"

const (
	DefaultFOV  float32 = 60
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 1000
)

// DefaultCameraPosition is used when the camera's entity has no transform.
var DefaultCameraPosition = Vector3{Z: 5}

// CameraFrame is what a camera publishes each time it renders.
type CameraFrame struct {
	Camera   ecs.ComponentID
	Frame    uint64
	Position Vector3
	Rotation Vector3
	FOV      float32
	Near     float32
	Far      float32
}

// Camera3D is a perspective camera. Drawing is left to whoever subscribes to
// Rendered.
type Camera3D struct {
	ecs.Base

	FOV  float32
	Near float32
	Far  float32

	Rendered events.Event[CameraFrame]
}

func NewCamera3D() ecs.Component {
	return &Camera3D{FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar}
}

// Render publishes the camera state for frame. The pose comes from the owning
// entity's Transform3D when it has one.
func (c *Camera3D) Render(frame uint64) CameraFrame {
	out := CameraFrame{
		Camera:   c.ID(),
		Frame:    frame,
		Position: DefaultCameraPosition,
		FOV:      c.FOV,
		Near:     c.Near,
		Far:      c.Far,
	}
	if m := c.Manager(); m != nil {
		if t, ok := ecs.FirstOf[*Transform3D](m, c.Owner()); ok {
			out.Position = t.Position()
			out.Rotation = t.Rotation()
		}
	}
	c.Rendered.Invoke(out)
	return out
}

func (c *Camera3D) Serialize(ctx serialization.Context) error {
	if err := c.Base.Serialize(ctx); err != nil {
		return err
	}
	if err := ctx.WriteFloat("fov_degrees", c.FOV); err != nil {
		return err
	}
	if err := ctx.WriteFloat("near_plane", c.Near); err != nil {
		return err
	}
	return ctx.WriteFloat("far_plane", c.Far)
}

// Deserialize keeps the defaults for any lens field the record omits.
func (c *Camera3D) Deserialize(ctx serialization.Context) error {
	if err := c.Base.Deserialize(ctx); err != nil {
		return err
	}
	for key, dst := range map[string]*float32{
		"fov_degrees": &c.FOV,
		"near_plane":  &c.Near,
		"far_plane":   &c.Far,
	} {
		if !ctx.HasKey(key) {
			continue
		}
		v, err := ctx.ReadFloat(key)
		if err != nil {
			return eris.Wrap(err, "camera")
		}
		*dst = v
	}
	return nil
}
