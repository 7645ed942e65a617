package ecs

import (
	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/serialization"
)

// Component is a unit of data and behaviour attached to one entity.
// Concrete components embed Base, which carries the identity assigned by the
// ComponentManager.
type Component interface {
	// Lifecycle

	Setup()
	Update(dt float64)

	// Serialization

	serialization.Serializable

	// Identity

	ID() ComponentID
	Owner() EntityID

	base() *Base
}

// Base holds the component's ID and owner. Only the ComponentManager binds
// them; a component that was never attached reports invalid IDs.
type Base struct {
	id      ComponentID
	owner   EntityID
	bound   bool
	manager *ComponentManager
}

func (b *Base) base() *Base { return b }

func (b *Base) ID() ComponentID {
	if !b.bound {
		return InvalidComponentID
	}
	return b.id
}

func (b *Base) Owner() EntityID {
	if !b.bound {
		return InvalidEntityID
	}
	return b.owner
}

// Manager returns the manager the component is attached to, or nil.
func (b *Base) Manager() *ComponentManager {
	return b.manager
}

// Entity resolves the owning entity.
func (b *Base) Entity() (*Entity, bool) {
	if b.manager == nil {
		return nil, false
	}
	return b.manager.entities.GetEntityByID(b.owner)
}

func (b *Base) Setup() {}

func (b *Base) Update(float64) {}

func (b *Base) bind(m *ComponentManager, id ComponentID, owner EntityID) {
	b.manager = m
	b.id = id
	b.owner = owner
	b.bound = true
}

func (b *Base) unbind() {
	b.manager = nil
	b.bound = false
}

// Serialize writes the component_id and owner_id records. Concrete components
// call it before writing their own fields.
func (b *Base) Serialize(ctx serialization.Context) error {
	id := b.ID()
	if err := serialization.WriteObject(ctx, "component_id", &id); err != nil {
		return err
	}
	owner := b.Owner()
	return serialization.WriteObject(ctx, "owner_id", &owner)
}

// Deserialize reads back what Serialize wrote. The IDs only become live once
// the ComponentManager restores the component.
func (b *Base) Deserialize(ctx serialization.Context) error {
	if err := serialization.ReadObject(ctx, "component_id", &b.id); err != nil {
		return eris.Wrap(err, "component base")
	}
	if err := serialization.ReadObject(ctx, "owner_id", &b.owner); err != nil {
		return eris.Wrap(err, "component base")
	}
	return nil
}
