package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetra-engine/tetra/internal/core/observability/log"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, time.Second/60, c.Engine.FixedTimestep)
	assert.Equal(t, log.LevelInfo, c.LogLevel())
	assert.Zero(t, c.Engine.MaxFrames)
	assert.Equal(t, time.Second/120, c.Engine.MinFrameTime())
}

func TestMinFrameTimeUncapped(t *testing.T) {
	assert.Zero(t, Engine{}.MinFrameTime())
	assert.Equal(t, 20*time.Millisecond, Engine{MaxFPS: 50}.MinFrameTime())
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte("log:\n  level: debug\nengine:\n  fixed_timestep: 10ms\n  max_frames: 120\n"))
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, c.LogLevel())
	assert.Equal(t, 10*time.Millisecond, c.Engine.FixedTimestep)
	assert.Equal(t, uint64(120), c.Engine.MaxFrames)
	assert.False(t, c.Engine.Headless)
	assert.True(t, c.Stage.Pretty, "untouched keys keep their default")
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "log: ["},
		{"level", "log:\n  level: loud\n"},
		{"timestep", "engine:\n  fixed_timestep: 0s\n"},
		{"negative timestep", "engine:\n  fixed_timestep: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(t.TempDir(), "tetra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  headless: true\n"), 0o644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.True(t, c.Engine.Headless)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
