// Package render keeps the list of cameras in the current stage and drives
// them once per rendered frame.
package render

import (
	"errors"

	"github.com/tetra-engine/tetra/internal/core/components"
	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/events"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/core/stage"
)

var ErrNoStage = errors.New("render: no stage to attach to")

type Option func(*Manager)

func WithLogger(l log.Log) Option {
	return func(m *Manager) { m.log = l }
}

// Manager caches references to every Camera3D in a stage. The cache follows
// the component manager's Created and Destroyed events, so it never scans the
// stage on the hot path.
type Manager struct {
	stage    *stage.Stage
	cameras  []ecs.Ref[*components.Camera3D]
	lifetime *events.Lifetime
	last     []components.CameraFrame
	log      log.Log
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	m.log = log.OrNop(m.log).Named("render")
	return m
}

// Init attaches to s. Calling Init again detaches from the previous stage.
func (m *Manager) Init(s *stage.Stage) error {
	if s == nil {
		return ErrNoStage
	}
	m.Close()

	m.stage = s
	m.lifetime = events.NewLifetime()
	m.cameras = ecs.ComponentsByType[*components.Camera3D](s.Components())

	cm := s.Components()
	cm.Created.SubscribeOwned(m.lifetime, m.onCreated)
	cm.Destroyed.SubscribeOwned(m.lifetime, m.onDestroyed)
	s.Rendering.SubscribeOwned(m.lifetime, func(frame uint64) { m.Render(frame) })

	m.log.Info("render manager attached",
		log.Stringer("stage", s.GUID()), log.Int("cameras", len(m.cameras)))
	return nil
}

func (m *Manager) onCreated(ref ecs.Ref[ecs.Component]) {
	c, ok := ref.Get()
	if !ok {
		return
	}
	if _, ok := c.(*components.Camera3D); ok {
		m.cameras = append(m.cameras, ecs.NewRef[*components.Camera3D](m.stage.Components(), ref.ID()))
	}
}

// onDestroyed runs before the component leaves the manager, so the dying
// camera is filtered out by ID rather than by liveness.
func (m *Manager) onDestroyed(ref ecs.Ref[ecs.Component]) {
	dying := ref.ID()
	var kept []ecs.Ref[*components.Camera3D]
	for _, cam := range ecs.ComponentsByType[*components.Camera3D](m.stage.Components()) {
		if cam.ID() != dying {
			kept = append(kept, cam)
		}
	}
	m.cameras = kept
}

// Render renders every live camera and returns what they published.
func (m *Manager) Render(frame uint64) []components.CameraFrame {
	out := make([]components.CameraFrame, 0, len(m.cameras))
	for _, ref := range m.cameras {
		cam, ok := ref.Get()
		if !ok {
			continue
		}
		out = append(out, cam.Render(frame))
	}
	m.last = out
	return out
}

// LastFrames returns the camera frames from the most recent Render.
func (m *Manager) LastFrames() []components.CameraFrame {
	return m.last
}

// Cameras returns the cached camera references.
func (m *Manager) Cameras() []ecs.Ref[*components.Camera3D] {
	return m.cameras
}

// Close detaches from the stage. The subscriptions are pruned the next time
// each event fires.
func (m *Manager) Close() {
	if m.lifetime == nil {
		return
	}
	m.lifetime.End()
	m.lifetime = nil
	m.stage = nil
	m.cameras = nil
	m.last = nil
}
