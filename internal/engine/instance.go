// Package engine ties the managers together and runs the main loop.
package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/config"
	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/core/project"
	"github.com/tetra-engine/tetra/internal/core/render"
	"github.com/tetra-engine/tetra/internal/core/stage"
)

// maxFrameTime clamps a single frame so a stall does not turn into hundreds
// of physics steps.
const maxFrameTime = 250 * time.Millisecond

// Clock is the loop's time source.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Stats counts what the loop has done since the instance was built.
type Stats struct {
	Frames       uint64
	PhysicsSteps uint64
}

// Instance owns one running engine: the project, the loaded stages and the
// renderer attached to the current stage.
type Instance struct {
	cfg      config.Config
	log      log.Log
	registry *ecs.Registry
	projects *project.Manager
	stages   *stage.Manager
	renderer *render.Manager

	clock    Clock
	viewport stage.Viewport
	active   *stage.Stage
	stats    Stats
}

func NewInstance(
	cfg config.Config,
	logger log.Log,
	registry *ecs.Registry,
	projects *project.Manager,
	stages *stage.Manager,
	renderer *render.Manager,
) *Instance {
	return &Instance{
		cfg:      cfg,
		log:      log.OrNop(logger).Named("engine"),
		registry: registry,
		projects: projects,
		stages:   stages,
		renderer: renderer,
		clock:    systemClock{},
	}
}

func (i *Instance) Config() config.Config      { return i.cfg }
func (i *Instance) Registry() *ecs.Registry    { return i.registry }
func (i *Instance) Projects() *project.Manager { return i.projects }
func (i *Instance) Stages() *stage.Manager     { return i.stages }
func (i *Instance) Renderer() *render.Manager  { return i.renderer }
func (i *Instance) Stats() Stats               { return i.stats }
func (i *Instance) SetClock(c Clock)           { i.clock = c }

// SetViewport is attached to every stage the instance activates.
func (i *Instance) SetViewport(v stage.Viewport) { i.viewport = v }

// Init opens the project in projectDir, loads its last open stage (or a new
// empty one when none is recorded) and attaches the renderer.
func (i *Instance) Init(projectDir string) error {
	file := filepath.Join(projectDir, project.DefaultFileName)
	if err := i.projects.Init(file); err != nil {
		return eris.Wrap(err, "init project")
	}

	var s *stage.Stage
	if path, ok := i.projects.StagePath(); ok {
		loaded, err := i.stages.LoadFile(path)
		if err != nil {
			return eris.Wrap(err, "load last open stage")
		}
		s = loaded
	} else {
		s = i.stages.LoadNewStage()
	}
	return i.activate(s)
}

// activate prepares s to be driven by the loop: viewport, renderer, Setup.
func (i *Instance) activate(s *stage.Stage) error {
	if i.viewport != nil {
		s.AttachViewport(i.viewport)
	}
	if err := i.renderer.Init(s); err != nil {
		return err
	}
	s.Setup()
	i.active = s
	i.log.Info("stage active",
		log.Stringer("guid", s.GUID()), log.String("name", s.Name()), log.Bool("headless", s.IsHeadless()))
	return nil
}

// Run drives the current stage with a fixed physics step until ctx is done,
// the stage asks to shut down or the configured frame limit is reached.
// Switching the current stage while running activates the new one on the next
// frame.
func (i *Instance) Run(ctx context.Context) error {
	if _, err := i.stages.Current(); err != nil {
		return err
	}

	step := i.cfg.Engine.FixedTimestep
	minFrame := i.cfg.Engine.MinFrameTime()
	var accumulator time.Duration
	previous := i.clock.Now()

	i.log.Info("engine loop starting",
		log.Duration("fixed_timestep", step), log.Uint64("max_frames", i.cfg.Engine.MaxFrames))
	defer func() {
		i.log.Info("engine loop stopped",
			log.Uint64("frames", i.stats.Frames), log.Uint64("physics_steps", i.stats.PhysicsSteps))
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if limit := i.cfg.Engine.MaxFrames; limit > 0 && i.stats.Frames >= limit {
			return nil
		}
		s, err := i.stages.Current()
		if err != nil {
			return err
		}
		if s != i.active {
			if err := i.activate(s); err != nil {
				return err
			}
		}
		if s.ShutdownRequested() {
			return nil
		}

		now := i.clock.Now()
		frameTime := min(now.Sub(previous), maxFrameTime)
		previous = now

		accumulator += frameTime
		for accumulator >= step {
			s.PhysicsUpdate(step.Seconds())
			accumulator -= step
			i.stats.PhysicsSteps++
		}

		s.Update(frameTime.Seconds())
		s.Render()
		i.stats.Frames++

		if minFrame > 0 {
			if spent := i.clock.Now().Sub(now); spent < minFrame {
				i.clock.Sleep(minFrame - spent)
			}
		}
	}
}

// Close detaches the renderer.
func (i *Instance) Close() {
	i.renderer.Close()
	i.active = nil
}
