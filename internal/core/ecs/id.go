package ecs

import (
	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/serialization"
	"github.com/tetra-engine/tetra/internal/core/slotmap"
)

// EntityID and ComponentID are generational handles. A stale handle never
// resolves to an object created later in the same slot.
type (
	EntityID    slotmap.Key
	ComponentID slotmap.Key
)

var (
	InvalidEntityID    = EntityID(slotmap.InvalidKey)
	InvalidComponentID = ComponentID(slotmap.InvalidKey)
)

func (id EntityID) Key() slotmap.Key { return slotmap.Key(id) }
func (id EntityID) IsValid() bool    { return slotmap.Key(id).IsValid() }
func (id EntityID) String() string   { return "entity " + slotmap.Key(id).String() }

func (id EntityID) Serialize(ctx serialization.Context) error {
	return writeKey(ctx, slotmap.Key(id))
}

func (id *EntityID) Deserialize(ctx serialization.Context) error {
	k, err := readKey(ctx)
	if err != nil {
		return eris.Wrap(err, "entity id")
	}
	*id = EntityID(k)
	return nil
}

func (id ComponentID) Key() slotmap.Key { return slotmap.Key(id) }
func (id ComponentID) IsValid() bool    { return slotmap.Key(id).IsValid() }
func (id ComponentID) String() string   { return "component " + slotmap.Key(id).String() }

func (id ComponentID) Serialize(ctx serialization.Context) error {
	return writeKey(ctx, slotmap.Key(id))
}

func (id *ComponentID) Deserialize(ctx serialization.Context) error {
	k, err := readKey(ctx)
	if err != nil {
		return eris.Wrap(err, "component id")
	}
	*id = ComponentID(k)
	return nil
}

func writeKey(ctx serialization.Context, k slotmap.Key) error {
	if err := ctx.WriteUint("index", k.Index); err != nil {
		return err
	}
	return ctx.WriteUint("generation", k.Generation)
}

func readKey(ctx serialization.Context) (slotmap.Key, error) {
	index, err := ctx.ReadUint("index")
	if err != nil {
		return slotmap.InvalidKey, err
	}
	generation, err := ctx.ReadUint("generation")
	if err != nil {
		return slotmap.InvalidKey, err
	}
	return slotmap.Key{Index: index, Generation: generation}, nil
}
