package ecs

import (
	"github.com/tetra-engine/tetra/internal/core/serialization"
)

type health struct {
	Base
	Value   int32
	setups  int
	updates []float64
}

func newHealth() Component { return &health{Value: 100} }

func (h *health) Setup() { h.setups++ }

func (h *health) Update(dt float64) { h.updates = append(h.updates, dt) }

func (h *health) Serialize(ctx serialization.Context) error {
	if err := h.Base.Serialize(ctx); err != nil {
		return err
	}
	return ctx.WriteInt("value", h.Value)
}

func (h *health) Deserialize(ctx serialization.Context) (err error) {
	if err = h.Base.Deserialize(ctx); err != nil {
		return err
	}
	h.Value, err = ctx.ReadInt("value")
	return err
}

type label struct {
	Base
	Text string
}

func newLabel() Component { return &label{} }

func (l *label) Serialize(ctx serialization.Context) error {
	if err := l.Base.Serialize(ctx); err != nil {
		return err
	}
	return ctx.WriteString("text", l.Text)
}

func (l *label) Deserialize(ctx serialization.Context) (err error) {
	if err = l.Base.Deserialize(ctx); err != nil {
		return err
	}
	l.Text, err = ctx.ReadString("text")
	return err
}

// unregistered is never added to the test registry.
type unregistered struct {
	Base
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("Health", newHealth)
	r.MustRegister("Label", newLabel)
	return r
}

func newTestManagers() (*EntityManager, *ComponentManager) {
	entities := NewEntityManager()
	return entities, NewComponentManager(newTestRegistry(), entities)
}
