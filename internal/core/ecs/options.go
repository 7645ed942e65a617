package ecs

import "github.com/tetra-engine/tetra/internal/core/observability/log"

// Option configures a Registry, EntityManager or ComponentManager.
type Option func(*options)

type options struct {
	logger log.Log
}

// WithLogger sets the logger; managers log nothing by default.
func WithLogger(l log.Log) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = log.OrNop(o.logger)
	return o
}
