// Package config holds the engine's runtime configuration, read from an
// optional YAML file.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/tetra-engine/tetra/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log    Log    `yaml:"log"`
	Engine Engine `yaml:"engine"`
	Stage  Stage  `yaml:"stage"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Engine struct {
	// FixedTimestep is the physics tick.
	FixedTimestep time.Duration `yaml:"fixed_timestep"`
	// MaxFrames stops the loop after that many frames; 0 runs until shutdown.
	MaxFrames uint64 `yaml:"max_frames"`
	// MaxFPS sleeps away the rest of a frame; 0 leaves the loop uncapped.
	MaxFPS   uint32 `yaml:"max_fps"`
	Headless bool   `yaml:"headless"`
}

type Stage struct {
	// Pretty writes indented stage documents.
	Pretty bool `yaml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Engine: Engine{
			FixedTimestep: time.Second / 60,
			MaxFPS:        120,
		},
		Stage: Stage{Pretty: true},
	}
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return eris.Wrapf(ErrInvalidConfig, "log.level: %v", err)
	}
	if c.Engine.FixedTimestep <= 0 {
		return eris.Wrapf(ErrInvalidConfig, "engine.fixed_timestep must be positive, got %s", c.Engine.FixedTimestep)
	}
	return nil
}

// MinFrameTime is the shortest frame MaxFPS allows, or 0 when uncapped.
func (e Engine) MinFrameTime() time.Duration {
	if e.MaxFPS == 0 {
		return 0
	}
	return time.Second / time.Duration(e.MaxFPS)
}

// LogLevel returns the parsed log level. It assumes Validate passed.
func (c Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}

// Parse decodes YAML over the defaults, so a file only needs the keys it
// changes.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, eris.Wrapf(ErrInvalidConfig, "decode: %v", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads path. An empty path yields Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "read config %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, eris.Wrapf(err, "%s", path)
	}
	return c, nil
}
