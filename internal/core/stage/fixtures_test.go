package stage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetra-engine/tetra/internal/core/components"
	"github.com/tetra-engine/tetra/internal/core/ecs"
)

func newRegistry(t *testing.T) *ecs.Registry {
	t.Helper()
	reg := ecs.NewRegistry()
	require.NoError(t, components.RegisterBuiltins(reg))
	return reg
}

// populated builds a stage with three entities, two of which carry a
// transform at (1, 2, 0).
func populated(t *testing.T, reg *ecs.Registry) *Stage {
	t.Helper()
	s := New(reg, WithName("Demo"))
	for _, name := range []string{"a", "b", "c"} {
		s.CreateEntity(name)
	}
	for _, e := range s.Entities().Entities()[:2] {
		tr, err := ecs.CreateComponent[*components.Transform3D](s.Components(), e.ID())
		require.NoError(t, err)
		tr.SetPosition(components.Vector3{X: 1, Y: 2})
	}
	return s
}

type recordingViewport struct {
	calls []string
}

func (v *recordingViewport) BeginFrame() { v.calls = append(v.calls, "begin") }

func (v *recordingViewport) EndFrame() { v.calls = append(v.calls, "end") }

type memFS struct {
	files  map[string]string
	writes int
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string]string)}
}

func (fs *memFS) read(path string) (string, bool) {
	s, ok := fs.files[path]
	return s, ok
}

func (fs *memFS) write(path, contents string) error {
	fs.writes++
	fs.files[path] = contents
	return nil
}

func (fs *memFS) options() []ManagerOption {
	return []ManagerOption{WithFileReader(fs.read), WithFileWriter(fs.write)}
}
