// Package components holds the component types every engine build ships with.
package components

import (
	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/ecs"
)

// RegisterBuiltins adds the builtin component types to reg. It is called once
// while the engine boots.
func RegisterBuiltins(reg *ecs.Registry) error {
	if err := reg.Register(TransformTypeName, NewTransform3D); err != nil {
		return eris.Wrap(err, "register builtins")
	}
	if err := reg.Register(CameraTypeName, NewCamera3D); err != nil {
		return eris.Wrap(err, "register builtins")
	}
	return nil
}
