//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/tetra-engine/tetra/internal/config"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/engine"
)

func InitializeInstance(cfg config.Config) (*engine.Instance, error) {
	wire.Build(engine.ProviderSet)
	return nil, nil
}

func ProvideLogger() *log.Logger {
	wire.Build(log.Provide)
	return nil
}
