package ecs

import (
	"reflect"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/events"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/core/serialization"
	"github.com/tetra-engine/tetra/internal/core/slotmap"
)

// ComponentManager is the sole owner of component lifetime in a stage.
// Everyone else holds a Ref or a ComponentID.
type ComponentManager struct {
	// Created fires after a component is attached to its owner.
	Created events.Event[Ref[Component]]
	// Destroyed fires before a component is removed; the Ref still resolves
	// inside the callback.
	Destroyed events.Event[Ref[Component]]

	components *slotmap.Map[Component]
	entities   *EntityManager
	registry   *Registry
	log        log.Log
}

// NewComponentManager builds a manager over entities, creating components
// through registry. It installs itself as the entities' component resolver.
func NewComponentManager(registry *Registry, entities *EntityManager, opts ...Option) *ComponentManager {
	o := buildOptions(opts)
	m := &ComponentManager{
		components: slotmap.New[Component](),
		entities:   entities,
		registry:   registry,
		log:        o.logger.Named("components"),
	}
	entities.SetComponentResolver(m)
	return m
}

func (m *ComponentManager) Registry() *Registry { return m.registry }

func (m *ComponentManager) Entities() *EntityManager { return m.entities }

// AllocateID reserves a component slot. The slot stays empty until a
// component is attached under it.
func (m *ComponentManager) AllocateID() ComponentID {
	return ComponentID(m.components.Reserve())
}

// CreateComponent instantiates the registered component type T and attaches
// it to owner.
func CreateComponent[T Component](m *ComponentManager, owner EntityID) (T, error) {
	var zero T
	name := m.registry.nameOfType(reflect.TypeOf((*T)(nil)).Elem())
	if name == "" {
		return zero, eris.Wrapf(ErrUnknownType, "%s is not registered", reflect.TypeOf((*T)(nil)).Elem())
	}
	c, err := m.CreateComponentByName(name, owner)
	if err != nil {
		return zero, err
	}
	typed, ok := c.(T)
	if !ok {
		return zero, eris.Wrapf(ErrInvalidType, "factory for %q built %T", name, c)
	}
	return typed, nil
}

// CreateComponentByName instantiates the named component type and attaches
// it to owner.
func (m *ComponentManager) CreateComponentByName(name string, owner EntityID) (Component, error) {
	entity, ok := m.entities.GetEntityByID(owner)
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "owner %s", owner)
	}
	c, err := m.registry.Instantiate(name)
	if err != nil {
		return nil, err
	}

	id := m.AllocateID()
	c.base().bind(m, id, owner)
	if err := m.components.Fill(id.Key(), c); err != nil {
		return nil, eris.Wrapf(err, "attach %s", id)
	}
	entity.attach(id)

	m.log.Debug("component created", log.Stringer("id", id), log.String("type", name), log.Stringer("owner", owner))
	m.Created.Invoke(NewRef[Component](m, id))
	return c, nil
}

// DestroyComponent fires Destroyed, then removes the component, frees its
// slot and detaches it from its owner. Unknown IDs are ignored.
func (m *ComponentManager) DestroyComponent(id ComponentID) {
	c, ok := m.components.Get(id.Key())
	if !ok {
		return
	}
	m.Destroyed.Invoke(NewRef[Component](m, id))

	m.components.Remove(id.Key())
	if owner, ok := m.entities.GetEntityByID(c.Owner()); ok {
		owner.detach(id)
	}
	c.base().unbind()
	m.log.Debug("component destroyed", log.Stringer("id", id))
}

func (m *ComponentManager) GetComponentByID(id ComponentID) (Component, bool) {
	return m.components.Get(id.Key())
}

func (m *ComponentManager) Len() int {
	return m.components.Len()
}

// All returns every live component ordered by slot index.
func (m *ComponentManager) All() []Component {
	keys := m.components.Keys()
	out := make([]Component, 0, len(keys))
	for _, k := range keys {
		c, _ := m.components.Get(k)
		out = append(out, c)
	}
	return out
}

// ComponentsOf returns owner's live components in attachment order.
func (m *ComponentManager) ComponentsOf(owner EntityID) []Component {
	e, ok := m.entities.GetEntityByID(owner)
	if !ok {
		return nil
	}
	out := make([]Component, 0, len(e.components))
	for _, id := range e.components {
		if c, ok := m.GetComponentByID(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// ComponentsByType scans every component and returns references to those of
// type T, ordered by slot index.
func ComponentsByType[T Component](m *ComponentManager) []Ref[T] {
	var out []Ref[T]
	for _, c := range m.All() {
		if _, ok := c.(T); ok {
			out = append(out, NewRef[T](m, c.ID()))
		}
	}
	return out
}

// FirstOf returns owner's first component of type T.
func FirstOf[T Component](m *ComponentManager, owner EntityID) (T, bool) {
	for _, c := range m.ComponentsOf(owner) {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// Serialize writes the "components" array. Every component must be of a
// registered type.
func (m *ComponentManager) Serialize(ctx serialization.Context) error {
	if _, err := ctx.BeginArrayKey("components"); err != nil {
		return err
	}
	ctx.Clear()
	for _, c := range m.All() {
		name := m.registry.NameOf(c)
		if name == "" {
			return eris.Wrapf(ErrUnknownType, "%s has unregistered type %T", c.ID(), c)
		}
		if err := ctx.BeginObjectPush(); err != nil {
			return err
		}
		if err := ctx.WriteString("type", name); err != nil {
			return err
		}
		if err := c.Serialize(ctx); err != nil {
			return eris.Wrapf(err, "serialize %s", c.ID())
		}
		if err := ctx.EndObject(); err != nil {
			return err
		}
	}
	return ctx.EndArray()
}

// Deserialize replaces every component with the persisted ones. Owners must
// already be loaded into the EntityManager. Created fires for each restored
// component once the whole set is in place.
func (m *ComponentManager) Deserialize(ctx serialization.Context) error {
	if !ctx.HasArray("components") {
		return eris.Wrap(serialization.ErrKeyNotFound, "components")
	}
	n, err := ctx.BeginArrayKey("components")
	if err != nil {
		return err
	}

	loaded := make(map[slotmap.Key]Component, n)
	for i := 0; i < n; i++ {
		c, err := m.readRecord(ctx, i)
		if err != nil {
			return eris.Wrapf(err, "component %d", i)
		}
		key := c.base().id.Key()
		if _, dup := loaded[key]; dup {
			return eris.Wrapf(slotmap.ErrDuplicateKey, "component %d has id %s", i, c.base().id)
		}
		loaded[key] = c
	}
	if err := ctx.EndArray(); err != nil {
		return err
	}

	if err := m.components.Restore(loaded); err != nil {
		return eris.Wrap(err, "restore components")
	}
	for _, e := range m.entities.Entities() {
		e.components = nil
	}

	keys := make([]slotmap.Key, 0, len(loaded))
	for k := range loaded {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Index < keys[j].Index })

	for _, k := range keys {
		c := loaded[k]
		b := c.base()
		b.bind(m, b.id, b.owner)
		owner, _ := m.entities.GetEntityByID(b.owner)
		owner.attach(b.id)
	}
	m.log.Debug("components loaded", log.Int("count", len(loaded)))
	for _, k := range keys {
		m.Created.Invoke(NewRef[Component](m, ComponentID(k)))
	}
	return nil
}

func (m *ComponentManager) readRecord(ctx serialization.Context, i int) (Component, error) {
	if err := ctx.BeginObjectIndex(i); err != nil {
		return nil, err
	}
	name, err := ctx.ReadString("type")
	if err != nil {
		return nil, err
	}
	c, err := m.registry.Instantiate(name)
	if err != nil {
		return nil, err
	}
	if err := c.Deserialize(ctx); err != nil {
		return nil, eris.Wrapf(err, "%q", name)
	}
	if err := ctx.EndObject(); err != nil {
		return nil, err
	}

	b := c.base()
	if !b.id.IsValid() {
		return nil, eris.Wrapf(slotmap.ErrInvalidKey, "%q has an invalid id", name)
	}
	if !m.entities.HasEntity(b.owner) {
		return nil, eris.Wrapf(ErrEntityNotFound, "owner %s of %s", b.owner, b.id)
	}
	return c, nil
}
