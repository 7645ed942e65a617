package ecs

import (
	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/core/serialization"
	"github.com/tetra-engine/tetra/internal/core/slotmap"
)

// ComponentResolver looks components up by ID. The ComponentManager installs
// itself on its EntityManager so entities can reach their components.
type ComponentResolver interface {
	GetComponentByID(id ComponentID) (Component, bool)
}

// EntityManager owns every entity of a stage.
type EntityManager struct {
	entities *slotmap.Map[*Entity]
	resolver ComponentResolver
	log      log.Log
}

func NewEntityManager(opts ...Option) *EntityManager {
	o := buildOptions(opts)
	return &EntityManager{
		entities: slotmap.New[*Entity](),
		log:      o.logger.Named("entities"),
	}
}

// SetComponentResolver wires entity Setup and Update to a component store.
func (m *EntityManager) SetComponentResolver(r ComponentResolver) {
	m.resolver = r
}

// CreateEntity allocates a new root entity.
func (m *EntityManager) CreateEntity(name string) *Entity {
	var created *Entity
	m.entities.Insert(func(k slotmap.Key) *Entity {
		created = &Entity{
			id:      EntityID(k),
			name:    name,
			parent:  InvalidEntityID,
			manager: m,
		}
		return created
	})
	m.log.Debug("entity created", log.Stringer("id", created.id), log.String("name", name))
	return created
}

// DestroyEntity removes the entity and frees its slot. It does not touch the
// entity's components; Stage.DestroyEntity cascades. Unknown IDs are ignored.
func (m *EntityManager) DestroyEntity(id EntityID) {
	e, ok := m.entities.Get(id.Key())
	if !ok {
		return
	}
	if parent, ok := e.Parent(); ok {
		parent.removeChild(id)
	}
	m.entities.Remove(id.Key())
	e.manager = nil
	m.log.Debug("entity destroyed", log.Stringer("id", id))
}

func (m *EntityManager) GetEntityByID(id EntityID) (*Entity, bool) {
	return m.entities.Get(id.Key())
}

func (m *EntityManager) HasEntity(id EntityID) bool {
	return m.entities.Contains(id.Key())
}

func (m *EntityManager) Len() int {
	return m.entities.Len()
}

// Entities returns every live entity ordered by slot index.
func (m *EntityManager) Entities() []*Entity {
	keys := m.entities.Keys()
	out := make([]*Entity, 0, len(keys))
	for _, k := range keys {
		e, _ := m.entities.Get(k)
		out = append(out, e)
	}
	return out
}

// Roots returns the entities without a live parent, ordered by slot index.
func (m *EntityManager) Roots() []*Entity {
	var out []*Entity
	for _, e := range m.Entities() {
		if _, ok := e.Parent(); !ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *EntityManager) Setup() {
	m.entities.Range(func(_ slotmap.Key, e *Entity) bool {
		e.Setup()
		return true
	})
}

func (m *EntityManager) Update(dt float64) {
	m.entities.Range(func(_ slotmap.Key, e *Entity) bool {
		e.Update(dt)
		return true
	})
}

// Serialize writes the "entities" array into the current object.
func (m *EntityManager) Serialize(ctx serialization.Context) error {
	if _, err := ctx.BeginArrayKey("entities"); err != nil {
		return err
	}
	ctx.Clear()
	for _, e := range m.Entities() {
		if err := ctx.BeginObjectPush(); err != nil {
			return err
		}
		if err := e.Serialize(ctx); err != nil {
			return eris.Wrapf(err, "serialize %s", e.id)
		}
		if err := ctx.EndObject(); err != nil {
			return err
		}
	}
	return ctx.EndArray()
}

// Deserialize replaces every entity with the persisted ones, keeping their
// IDs. Slots missing from the document become free again.
func (m *EntityManager) Deserialize(ctx serialization.Context) error {
	if !ctx.HasArray("entities") {
		return eris.Wrap(serialization.ErrKeyNotFound, "entities")
	}
	n, err := ctx.BeginArrayKey("entities")
	if err != nil {
		return err
	}

	loaded := make(map[slotmap.Key]*Entity, n)
	for i := 0; i < n; i++ {
		if err := ctx.BeginObjectIndex(i); err != nil {
			return eris.Wrapf(err, "entity %d", i)
		}
		e := &Entity{manager: m}
		if err := e.Deserialize(ctx); err != nil {
			return eris.Wrapf(err, "entity %d", i)
		}
		if err := ctx.EndObject(); err != nil {
			return err
		}
		if _, dup := loaded[e.id.Key()]; dup {
			return eris.Wrapf(slotmap.ErrDuplicateKey, "entity %d has id %s", i, e.id)
		}
		loaded[e.id.Key()] = e
	}
	if err := ctx.EndArray(); err != nil {
		return err
	}

	if err := m.entities.Restore(loaded); err != nil {
		return eris.Wrap(err, "restore entities")
	}
	m.log.Debug("entities loaded", log.Int("count", len(loaded)))
	return nil
}
