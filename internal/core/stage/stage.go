// Package stage holds the Stage, the unit of content the engine loads, runs
// and saves, and the Manager that tracks which stages are loaded.
package stage

import (
	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/events"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/pkg/guid"
)

const DefaultName = "Untitled"

// Viewport is the drawing surface a stage renders into.
type Viewport interface {
	BeginFrame()
	EndFrame()
}

// Stage is one scene: an entity manager and a component manager plus the
// bits of runtime state the engine loop needs.
type Stage struct {
	// Rendering fires between the viewport's BeginFrame and EndFrame with the
	// frame number. Renderers draw from it.
	Rendering events.Event[uint64]

	guid     guid.GUID
	name     string
	headless bool
	viewport Viewport
	shutdown bool
	frames   uint64

	entities   *ecs.EntityManager
	components *ecs.ComponentManager
	log        log.Log
}

type Option func(*Stage)

func WithName(name string) Option {
	return func(s *Stage) { s.name = name }
}

func WithGUID(id guid.GUID) Option {
	return func(s *Stage) { s.guid = id }
}

// WithHeadless marks the stage as never rendering, even with a viewport.
func WithHeadless(headless bool) Option {
	return func(s *Stage) { s.headless = headless }
}

func WithLogger(l log.Log) Option {
	return func(s *Stage) { s.log = l }
}

// New builds an empty stage whose components are created through registry.
func New(registry *ecs.Registry, opts ...Option) *Stage {
	s := &Stage{
		guid: guid.New(),
		name: DefaultName,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = log.OrNop(s.log).Named("stage")
	s.entities = ecs.NewEntityManager(ecs.WithLogger(s.log))
	s.components = ecs.NewComponentManager(registry, s.entities, ecs.WithLogger(s.log))
	return s
}

func (s *Stage) GUID() guid.GUID { return s.guid }

func (s *Stage) Name() string { return s.name }

func (s *Stage) SetName(name string) { s.name = name }

func (s *Stage) Entities() *ecs.EntityManager { return s.entities }

func (s *Stage) Components() *ecs.ComponentManager { return s.components }

// CreateEntity is a shorthand for Entities().CreateEntity.
func (s *Stage) CreateEntity(name string) *ecs.Entity {
	return s.entities.CreateEntity(name)
}

// DestroyEntity destroys the entity's components, firing Destroyed for each,
// and then the entity itself. Children are left in place as new roots.
func (s *Stage) DestroyEntity(id ecs.EntityID) {
	e, ok := s.entities.GetEntityByID(id)
	if !ok {
		return
	}
	for _, cid := range e.ComponentIDs() {
		s.components.DestroyComponent(cid)
	}
	s.entities.DestroyEntity(id)
}

func (s *Stage) Setup() {
	s.entities.Setup()
}

func (s *Stage) Update(dt float64) {
	s.entities.Update(dt)
}

// PhysicsUpdate runs once per fixed step. There is no physics backend; the
// hook keeps the loop shape stable.
func (s *Stage) PhysicsUpdate(float64) {}

// Render draws one frame into the attached viewport. Headless stages skip it.
func (s *Stage) Render() {
	if s.IsHeadless() {
		return
	}
	s.viewport.BeginFrame()
	s.Rendering.Invoke(s.frames)
	s.viewport.EndFrame()
	s.frames++
}

// Frames is the number of frames rendered so far.
func (s *Stage) Frames() uint64 { return s.frames }

func (s *Stage) AttachViewport(v Viewport) { s.viewport = v }

func (s *Stage) DetachViewport() { s.viewport = nil }

// IsHeadless reports whether Render is a no-op: either the stage was built
// headless or it has no viewport.
func (s *Stage) IsHeadless() bool {
	return s.headless || s.viewport == nil
}

func (s *Stage) RequestShutdown() {
	s.shutdown = true
}

func (s *Stage) ShutdownRequested() bool {
	return s.shutdown
}
