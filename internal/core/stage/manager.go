package stage

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/rotisserie/eris"

	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/core/project"
	"github.com/tetra-engine/tetra/pkg/concurrent"
	"github.com/tetra-engine/tetra/pkg/generic"
	"github.com/tetra-engine/tetra/pkg/guid"
)

// FileReader returns the contents of path, or false when it cannot be read.
type FileReader = project.FileReader

// FileWriter replaces the contents of path.
type FileWriter func(path, contents string) error

func writeOSFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), fs.FileMode(0o644))
}

type ManagerOption func(*Manager)

func WithFileReader(r FileReader) ManagerOption {
	return func(m *Manager) { m.readFile = r }
}

func WithFileWriter(w FileWriter) ManagerOption {
	return func(m *Manager) { m.writeFile = w }
}

// WithStageOptions applies opts to every stage the manager creates or loads.
func WithStageOptions(opts ...Option) ManagerOption {
	return func(m *Manager) { m.stageOpts = append(m.stageOpts, opts...) }
}

// WithPrettyOutput makes Save write indented documents.
func WithPrettyOutput(pretty bool) ManagerOption {
	return func(m *Manager) { m.pretty = pretty }
}

// WithPreloadLimit caps how many files Preload parses at once; 0 is no cap.
func WithPreloadLimit(n int) ManagerOption {
	return func(m *Manager) { m.preloadLimit = n }
}

func WithManagerLogger(l log.Log) ManagerOption {
	return func(m *Manager) { m.log = l }
}

type tracked struct {
	stage       *Stage
	path        string
	fingerprint uint64
	persisted   bool
}

// Manager keeps the loaded stages by GUID and knows which one is current.
// It is used from the engine goroutine only; Preload parallelises parsing
// internally and registers the results on the caller's goroutine.
type Manager struct {
	registry *ecs.Registry
	current  *Stage
	stages   map[guid.GUID]*tracked
	order    []guid.GUID

	readFile     FileReader
	writeFile    FileWriter
	stageOpts    []Option
	pretty       bool
	preloadLimit int
	log          log.Log
}

func NewManager(registry *ecs.Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry:  registry,
		stages:    make(map[guid.GUID]*tracked),
		readFile:  project.ReadFileContents,
		writeFile: writeOSFile,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = log.OrNop(m.log).Named("stages")
	m.stageOpts = append([]Option{WithLogger(m.log)}, m.stageOpts...)
	return m
}

// Current returns the active stage. Having none is an error, never an
// implicit empty stage.
func (m *Manager) Current() (*Stage, error) {
	if m.current == nil {
		return nil, ErrNoCurrentStage
	}
	return m.current, nil
}

// CreateEmptyStage builds a stage without registering it.
func (m *Manager) CreateEmptyStage(opts ...Option) *Stage {
	return New(m.registry, append(m.stageOpts[:len(m.stageOpts):len(m.stageOpts)], opts...)...)
}

// LoadNewStage makes a fresh empty stage current.
func (m *Manager) LoadNewStage(opts ...Option) *Stage {
	s := m.CreateEmptyStage(opts...)
	m.register(s, "", false)
	m.current = s
	m.log.Info("new stage loaded", log.Stringer("guid", s.GUID()), log.String("name", s.Name()))
	return s
}

// LoadText parses a stage document and makes it current.
func (m *Manager) LoadText(text string) (*Stage, error) {
	s, err := Unmarshal(text, m.registry, m.stageOpts...)
	if err != nil {
		return nil, err
	}
	m.register(s, "", true)
	m.current = s
	return s, nil
}

// LoadFile reads and parses the stage at path and makes it current.
func (m *Manager) LoadFile(path string) (*Stage, error) {
	s, err := m.parseFile(path)
	if err != nil {
		return nil, err
	}
	m.register(s, path, true)
	m.current = s
	m.log.Info("stage loaded", log.String("path", path), log.Stringer("guid", s.GUID()),
		log.Int("entities", s.Entities().Len()), log.Int("components", s.Components().Len()))
	return s, nil
}

func (m *Manager) parseFile(path string) (*Stage, error) {
	text, ok := m.readFile(path)
	if !ok {
		return nil, eris.Wrapf(ErrStageFileNotFound, "%s", path)
	}
	s, err := Unmarshal(text, m.registry, m.stageOpts...)
	if err != nil {
		return nil, eris.Wrapf(err, "%s", path)
	}
	return s, nil
}

// Preload parses several stage files concurrently and registers them in the
// order given. The current stage does not change. Nothing is registered if
// any file fails.
func (m *Manager) Preload(ctx context.Context, paths []string) ([]*Stage, error) {
	loaded, err := concurrent.Map(ctx, paths, m.preloadLimit, func(_ context.Context, path string) (*Stage, error) {
		return m.parseFile(path)
	})
	if err != nil {
		return nil, eris.Wrap(err, "preload stages")
	}

	for i, s := range loaded {
		m.register(s, paths[i], true)
	}
	m.log.Info("stages preloaded", log.Int("count", len(loaded)))
	return loaded, nil
}

// Save writes s to path and records it as clean.
func (m *Manager) Save(s *Stage, path string) error {
	if s == nil {
		return ErrNilStage
	}
	text, err := Marshal(s, m.pretty)
	if err != nil {
		return err
	}
	if err := m.writeFile(path, text); err != nil {
		return eris.Wrapf(err, "write stage %s", path)
	}
	m.register(s, path, true)
	m.log.Info("stage saved", log.String("path", path), log.Stringer("guid", s.GUID()))
	return nil
}

// SaveCurrent writes the current stage back to the file it came from.
func (m *Manager) SaveCurrent() error {
	s, err := m.Current()
	if err != nil {
		return err
	}
	t := m.stages[s.GUID()]
	if t == nil || t.path == "" {
		return eris.Wrapf(ErrStageFileNotFound, "stage %s has no file", s.GUID())
	}
	return m.Save(s, t.path)
}

// register records s, replacing any stage already loaded under its GUID.
func (m *Manager) register(s *Stage, path string, persisted bool) {
	id := s.GUID()
	t, ok := m.stages[id]
	if !ok {
		t = &tracked{}
		m.stages[id] = t
		m.order = append(m.order, id)
	} else if m.current == t.stage && t.stage != s {
		m.current = s
	}
	t.stage = s
	if path != "" {
		t.path = path
	}
	t.persisted = persisted
	t.fingerprint = 0
	if !persisted {
		return
	}
	sum, err := fingerprint(s)
	if err != nil {
		// Without a baseline the stage is reported dirty until the next save.
		m.log.Warn("stage fingerprint failed", log.Stringer("guid", id), log.Error(err))
		t.persisted = false
		return
	}
	t.fingerprint = sum
}

var digests = generic.NewPool(xxhash.New, (*xxhash.Digest).Reset)

func fingerprint(s *Stage) (uint64, error) {
	text, err := Marshal(s, false)
	if err != nil {
		return 0, err
	}
	return generic.With(digests, func(d *xxhash.Digest) uint64 {
		_, _ = d.WriteString(text)
		return d.Sum64()
	}), nil
}

// IsDirty reports whether s differs from what was last loaded or saved.
// Stages that were never persisted are always dirty.
func (m *Manager) IsDirty(s *Stage) (bool, error) {
	if s == nil {
		return false, ErrNilStage
	}
	t, ok := m.stages[s.GUID()]
	if !ok || t.stage != s {
		return false, eris.Wrapf(ErrStageNotFound, "%s", s.GUID())
	}
	if !t.persisted {
		return true, nil
	}
	sum, err := fingerprint(s)
	if err != nil {
		return false, err
	}
	return sum != t.fingerprint, nil
}

// Path returns the file a stage was loaded from or saved to.
func (m *Manager) Path(id guid.GUID) (string, bool) {
	t, ok := m.stages[id]
	if !ok || t.path == "" {
		return "", false
	}
	return t.path, true
}

func (m *Manager) Lookup(id guid.GUID) (*Stage, bool) {
	t, ok := m.stages[id]
	if !ok {
		return nil, false
	}
	return t.stage, true
}

// Stages lists the registered stages in registration order.
func (m *Manager) Stages() []*Stage {
	out := make([]*Stage, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.stages[id].stage)
	}
	return out
}

// Activate makes a registered stage current.
func (m *Manager) Activate(id guid.GUID) (*Stage, error) {
	s, ok := m.Lookup(id)
	if !ok {
		return nil, eris.Wrapf(ErrStageNotFound, "%s", id)
	}
	m.current = s
	return s, nil
}

// Unload forgets a stage. Unloading the current stage leaves none current.
func (m *Manager) Unload(id guid.GUID) bool {
	t, ok := m.stages[id]
	if !ok {
		return false
	}
	delete(m.stages, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.current == t.stage {
		m.current = nil
	}
	m.log.Info("stage unloaded", log.Stringer("guid", id))
	return true
}

// IsNotFound reports whether err means a stage file or registration is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStageFileNotFound) || errors.Is(err, ErrStageNotFound)
}
