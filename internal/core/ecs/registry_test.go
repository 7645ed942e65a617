package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tetra-engine/tetra/internal/core/observability/log"
)

func TestRegistryRegisterAndInstantiate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewRegistry(WithLogger(log.NewFromZap(zap.New(core), log.LevelInfo)))

	require.NoError(t, r.Register("Health", newHealth))
	require.NoError(t, r.Register("Label", newLabel))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"Health", "Label"}, r.Names())
	assert.Equal(t, 2, logs.FilterMessage("registered component type").Len())

	c, err := r.Instantiate("Health")
	require.NoError(t, err)
	h, ok := c.(*health)
	require.True(t, ok)
	assert.Equal(t, int32(100), h.Value)
	assert.Equal(t, InvalidComponentID, h.ID(), "unattached components have no id")

	assert.Equal(t, "Health", r.NameOf(h))
	assert.Equal(t, "Label", r.NameOf(&label{}))
	assert.Equal(t, "", r.NameOf(&unregistered{}))
	assert.Equal(t, "", r.NameOf(nil))
}

func TestRegistryRejects(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name    string
		regName string
		factory Factory
		err     error
	}{
		{"duplicate name", "Health", func() Component { return &unregistered{} }, ErrDuplicateType},
		{"duplicate type", "Health2", newHealth, ErrDuplicateType},
		{"empty name", "", func() Component { return &unregistered{} }, ErrInvalidType},
		{"nil factory", "Nil", nil, ErrInvalidType},
		{"nil component", "Empty", func() Component { return nil }, ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.Register(tt.regName, tt.factory), tt.err)
		})
	}
	assert.Equal(t, 2, r.Len())

	_, err := r.Instantiate("Missing")
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.Panics(t, func() { r.MustRegister("Health", newHealth) })
}
