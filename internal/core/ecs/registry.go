package ecs

import (
	"reflect"
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/observability/log"
)

// Factory builds a fresh, unbound component with its default field values.
type Factory func() Component

// Registry maps persisted type names to factories and concrete Go types back
// to their names. Registration happens once during bootstrap; afterwards the
// registry is only read, possibly from several goroutines.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	names     map[reflect.Type]string
	log       log.Log
}

func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{
		factories: make(map[string]Factory),
		names:     make(map[reflect.Type]string),
		log:       o.logger.Named("registry"),
	}
}

// Register binds name to factory. Both the name and the concrete type the
// factory produces must be new to the registry.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return eris.Wrap(ErrInvalidType, "empty type name")
	}
	if factory == nil {
		return eris.Wrapf(ErrInvalidType, "nil factory for %q", name)
	}
	sample := factory()
	if sample == nil {
		return eris.Wrapf(ErrInvalidType, "factory for %q returned nil", name)
	}
	typ := reflect.TypeOf(sample)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return eris.Wrapf(ErrDuplicateType, "name %q", name)
	}
	if existing, ok := r.names[typ]; ok {
		return eris.Wrapf(ErrDuplicateType, "type %s already registered as %q", typ, existing)
	}

	r.factories[name] = factory
	r.names[typ] = name
	r.log.Info("registered component type", log.String("name", name), log.String("type", typ.String()))
	return nil
}

// MustRegister is Register for bootstrap code; it panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Instantiate builds a new component of the named type.
func (r *Registry) Instantiate(name string) (Component, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, eris.Wrapf(ErrUnknownType, "%q", name)
	}
	return factory(), nil
}

// NameOf returns the registered name of c's concrete type, or "" when the
// type was never registered.
func (r *Registry) NameOf(c Component) string {
	if c == nil {
		return ""
	}
	return r.nameOfType(reflect.TypeOf(c))
}

func (r *Registry) nameOfType(typ reflect.Type) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[typ]
}

// Names lists registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
