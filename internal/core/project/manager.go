package project

import (
	"path/filepath"

	"github.com/tetra-engine/tetra/internal/core/observability/log"
)

type Option func(*Manager)

func WithFileReader(r FileReader) Option {
	return func(m *Manager) { m.read = r }
}

func WithLogger(l log.Log) Option {
	return func(m *Manager) { m.log = l }
}

// Manager holds the settings of the open project.
type Manager struct {
	file     string
	dir      string
	settings *Settings
	read     FileReader
	log      log.Log
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{read: ReadFileContents}
	for _, opt := range opts {
		opt(m)
	}
	m.log = log.OrNop(m.log).Named("project")
	return m
}

// Init loads the project file. On failure the manager keeps whatever project
// it had open before.
func (m *Manager) Init(projectFile string) error {
	m.log.Info("loading project", log.String("path", projectFile))
	s, err := Load(projectFile, m.read)
	if err != nil {
		return err
	}
	m.file = projectFile
	m.dir = filepath.Dir(projectFile)
	m.settings = s
	m.log.Info("project loaded",
		log.String("name", s.ProjectName),
		log.String("engine_version", s.EngineVersion),
		log.String("definition_version", s.ProjectDefinitionVersion))
	return nil
}

// Settings returns the open project's settings, or nil before Init.
func (m *Manager) Settings() *Settings { return m.settings }

func (m *Manager) File() string { return m.file }

// Dir is the directory holding the project file.
func (m *Manager) Dir() string { return m.dir }

// StagePath resolves last_open_stage against the project directory. It
// reports false when no project is open or no stage is recorded.
func (m *Manager) StagePath() (string, bool) {
	if m.settings == nil || m.settings.LastOpenStage == "" {
		return "", false
	}
	if filepath.IsAbs(m.settings.LastOpenStage) {
		return m.settings.LastOpenStage, true
	}
	return filepath.Join(m.dir, m.settings.LastOpenStage), true
}
