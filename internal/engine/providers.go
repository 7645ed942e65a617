package engine

import (
	"github.com/google/wire"

	"github.com/tetra-engine/tetra/internal/config"
	"github.com/tetra-engine/tetra/internal/core/components"
	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/core/project"
	"github.com/tetra-engine/tetra/internal/core/render"
	"github.com/tetra-engine/tetra/internal/core/stage"
)

// ProviderSet builds an Instance from a config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideProjectManager,
	ProvideStageManager,
	ProvideRenderManager,
	NewInstance,
)

func ProvideLogger(cfg config.Config) log.Log {
	return log.New(cfg.LogLevel())
}

// ProvideRegistry returns a registry holding the builtin component types.
func ProvideRegistry(logger log.Log) (*ecs.Registry, error) {
	reg := ecs.NewRegistry(ecs.WithLogger(logger))
	if err := components.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func ProvideProjectManager(logger log.Log) *project.Manager {
	return project.NewManager(project.WithLogger(logger))
}

func ProvideStageManager(cfg config.Config, registry *ecs.Registry, logger log.Log) *stage.Manager {
	return stage.NewManager(registry,
		stage.WithManagerLogger(logger),
		stage.WithPrettyOutput(cfg.Stage.Pretty),
		stage.WithStageOptions(stage.WithHeadless(cfg.Engine.Headless)),
	)
}

func ProvideRenderManager(logger log.Log) *render.Manager {
	return render.NewManager(render.WithLogger(logger))
}
