package ecs

// Ref is a weak reference to a component. It never keeps the component alive:
// Get goes through the manager and fails once the component is destroyed,
// even if its slot has been reused since.
type Ref[T any] struct {
	manager *ComponentManager
	id      ComponentID
}

// NewRef builds a reference to the component with the given ID.
func NewRef[T any](m *ComponentManager, id ComponentID) Ref[T] {
	return Ref[T]{manager: m, id: id}
}

func (r Ref[T]) ID() ComponentID { return r.id }

// Get returns the referenced component if it is still alive and of type T.
func (r Ref[T]) Get() (T, bool) {
	var zero T
	if r.manager == nil {
		return zero, false
	}
	c, ok := r.manager.GetComponentByID(r.id)
	if !ok {
		return zero, false
	}
	typed, ok := any(c).(T)
	return typed, ok
}

func (r Ref[T]) Alive() bool {
	_, ok := r.Get()
	return ok
}
