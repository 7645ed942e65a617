package ecs

import (
	"slices"

	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/serialization"
)

// Entity is a named node in the stage hierarchy. It owns no data itself:
// components point back to it through their owner ID, and parent and children
// are kept as IDs resolved through the EntityManager.
type Entity struct {
	id         EntityID
	name       string
	parent     EntityID
	children   []EntityID
	components []ComponentID
	manager    *EntityManager
}

func (e *Entity) ID() EntityID { return e.id }

func (e *Entity) Name() string { return e.name }

func (e *Entity) SetName(name string) { e.name = name }

func (e *Entity) ParentID() EntityID { return e.parent }

// Parent resolves the parent entity; false when there is none or it is gone.
func (e *Entity) Parent() (*Entity, bool) {
	if !e.parent.IsValid() || e.manager == nil {
		return nil, false
	}
	return e.manager.GetEntityByID(e.parent)
}

// SetParent re-parents e. InvalidEntityID detaches it.
// A destroyed entity cannot be re-parented.
func (e *Entity) SetParent(parentID EntityID) error {
	if e.manager == nil {
		return eris.Wrapf(ErrEntityNotFound, "%s was destroyed", e.id)
	}
	if parentID == e.id {
		return eris.Wrapf(ErrSelfParent, "%s", e.id)
	}

	var parent *Entity
	if parentID.IsValid() {
		var ok bool
		parent, ok = e.manager.GetEntityByID(parentID)
		if !ok {
			return eris.Wrapf(ErrEntityNotFound, "parent %s", parentID)
		}
		// bounded walk: loaded documents may already contain a cycle
		p := parent
		for steps := 0; steps <= e.manager.Len(); steps++ {
			if p.id == e.id {
				return eris.Wrapf(ErrParentCycle, "%s under %s", e.id, parentID)
			}
			next, ok := p.Parent()
			if !ok {
				break
			}
			p = next
		}
	}

	if old, ok := e.Parent(); ok {
		old.removeChild(e.id)
	}
	e.parent = InvalidEntityID
	if parent != nil {
		e.parent = parentID
		parent.children = append(parent.children, e.id)
	}
	return nil
}

func (e *Entity) removeChild(id EntityID) {
	e.children = slices.DeleteFunc(e.children, func(c EntityID) bool { return c == id })
}

// Children resolves the child IDs, skipping any that no longer exist.
func (e *Entity) Children() []*Entity {
	out := make([]*Entity, 0, len(e.children))
	if e.manager == nil {
		return out
	}
	for _, id := range e.children {
		if child, ok := e.manager.GetEntityByID(id); ok {
			out = append(out, child)
		}
	}
	return out
}

func (e *Entity) ChildIDs() []EntityID {
	return slices.Clone(e.children)
}

// ComponentIDs lists the components attached to e in attachment order.
func (e *Entity) ComponentIDs() []ComponentID {
	return slices.Clone(e.components)
}

func (e *Entity) attach(id ComponentID) {
	e.components = append(e.components, id)
}

func (e *Entity) detach(id ComponentID) {
	e.components = slices.DeleteFunc(e.components, func(c ComponentID) bool { return c == id })
}

func (e *Entity) eachComponent(fn func(Component)) {
	if e.manager == nil || e.manager.resolver == nil {
		return
	}
	for _, id := range slices.Clone(e.components) {
		if c, ok := e.manager.resolver.GetComponentByID(id); ok {
			fn(c)
		}
	}
}

func (e *Entity) Setup() {
	e.eachComponent(func(c Component) { c.Setup() })
}

func (e *Entity) Update(dt float64) {
	e.eachComponent(func(c Component) { c.Update(dt) })
}

func (e *Entity) Serialize(ctx serialization.Context) error {
	if err := serialization.WriteObject(ctx, "id", &e.id); err != nil {
		return err
	}
	if err := ctx.WriteString("name", e.name); err != nil {
		return err
	}
	if err := serialization.WriteObject(ctx, "parent", &e.parent); err != nil {
		return err
	}
	if _, err := ctx.BeginArrayKey("children"); err != nil {
		return err
	}
	ctx.Clear()
	for _, child := range e.children {
		if err := ctx.BeginObjectPush(); err != nil {
			return err
		}
		if err := child.Serialize(ctx); err != nil {
			return err
		}
		if err := ctx.EndObject(); err != nil {
			return err
		}
	}
	return ctx.EndArray()
}

// Deserialize reads an entity record. parent and children are optional.
func (e *Entity) Deserialize(ctx serialization.Context) error {
	if err := serialization.ReadObject(ctx, "id", &e.id); err != nil {
		return err
	}
	name, err := ctx.ReadString("name")
	if err != nil {
		return eris.Wrapf(err, "%s", e.id)
	}
	e.name = name

	e.parent = InvalidEntityID
	if ctx.HasObject("parent") {
		if err := serialization.ReadObject(ctx, "parent", &e.parent); err != nil {
			return eris.Wrapf(err, "%s", e.id)
		}
	}

	e.children = nil
	if ctx.HasArray("children") {
		n, err := ctx.BeginArrayKey("children")
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			var child EntityID
			if err := ctx.BeginObjectIndex(i); err != nil {
				return eris.Wrapf(err, "%s child %d", e.id, i)
			}
			if err := child.Deserialize(ctx); err != nil {
				return eris.Wrapf(err, "%s child %d", e.id, i)
			}
			if err := ctx.EndObject(); err != nil {
				return err
			}
			e.children = append(e.children, child)
		}
		if err := ctx.EndArray(); err != nil {
			return err
		}
	}
	return nil
}
