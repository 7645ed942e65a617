package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/serialization"
	"github.com/tetra-engine/tetra/internal/core/serialization/jsontree"
)

func newManagers(t *testing.T) (*ecs.EntityManager, *ecs.ComponentManager) {
	t.Helper()
	reg := ecs.NewRegistry()
	require.NoError(t, RegisterBuiltins(reg))
	entities := ecs.NewEntityManager()
	return entities, ecs.NewComponentManager(reg, entities)
}

func TestRegisterBuiltins(t *testing.T) {
	reg := ecs.NewRegistry()
	require.NoError(t, RegisterBuiltins(reg))
	assert.Equal(t, []string{CameraTypeName, TransformTypeName}, reg.Names())
	assert.Equal(t, TransformTypeName, reg.NameOf(&Transform3D{}))

	assert.ErrorIs(t, RegisterBuiltins(reg), ecs.ErrDuplicateType)
}

func TestTransformTranslate(t *testing.T) {
	tr := &Transform3D{}
	tr.Translate(Vector3{X: 1, Y: 2})
	tr.Translate(Vector3{X: 0.5, Z: -1})
	assert.Equal(t, Vector3{X: 1.5, Y: 2, Z: -1}, tr.Position())

	tr.SetPosition(Vector3{})
	assert.Equal(t, Vector3{}, tr.Position())
}

func TestTransformRotateWraps(t *testing.T) {
	tests := []struct {
		name  string
		start Vector3
		delta Vector3
		want  Vector3
	}{
		{"within range", Vector3{}, Vector3{X: 90, Y: -180, Z: 360}, Vector3{X: 90, Y: -180, Z: 360}},
		{"past full turn", Vector3{X: 300}, Vector3{X: 100}, Vector3{X: 40}},
		{"past negative turn", Vector3{Y: -300}, Vector3{Y: -90}, Vector3{Y: -30}},
		{"exact turns kept", Vector3{X: 300, Y: -300}, Vector3{X: 60, Y: -60}, Vector3{X: 360, Y: -360}},
		{"two turns wrap to zero", Vector3{Z: 360}, Vector3{Z: 360}, Vector3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transform3D{}
			tr.SetRotation(tt.start)
			tr.RotateDegrees(tt.delta)
			assert.InDelta(t, tt.want.X, tr.Rotation().X, 1e-4)
			assert.InDelta(t, tt.want.Y, tr.Rotation().Y, 1e-4)
			assert.InDelta(t, tt.want.Z, tr.Rotation().Z, 1e-4)
		})
	}
}

func TestTransformRecordIsFlat(t *testing.T) {
	entities, components := newManagers(t)
	e := entities.CreateEntity("e")
	tr, err := ecs.CreateComponent[*Transform3D](components, e.ID())
	require.NoError(t, err)
	tr.SetPosition(Vector3{X: 1, Y: 2, Z: 3})
	tr.SetRotation(Vector3{Y: 45})

	w := jsontree.NewWriter()
	require.NoError(t, tr.Serialize(w))
	assert.Equal(t, []string{"component_id", "owner_id", "rotation", "x", "y", "z"}, w.Keys())

	var loaded Transform3D
	require.NoError(t, loaded.Deserialize(jsontree.NewReader(w.Document())))
	assert.Equal(t, tr.Position(), loaded.Position())
	assert.Equal(t, tr.Rotation(), loaded.Rotation())
}

func TestTransformWithoutRotation(t *testing.T) {
	doc, err := jsontree.Parse(`{"component_id": {"index": 0, "generation": 0},
		"owner_id": {"index": 0, "generation": 0}, "x": 1, "y": 2, "z": 3}`)
	require.NoError(t, err)

	var tr Transform3D
	require.NoError(t, tr.Deserialize(jsontree.NewReader(doc)))
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, tr.Position())
	assert.Equal(t, Vector3{}, tr.Rotation())

	doc, err = jsontree.Parse(`{"component_id": {"index": 0, "generation": 0},
		"owner_id": {"index": 0, "generation": 0}, "x": 1, "y": 2}`)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.Deserialize(jsontree.NewReader(doc)), serialization.ErrKeyNotFound)
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera3D().(*Camera3D)
	assert.Equal(t, float32(60), c.FOV)
	assert.Equal(t, float32(0.1), c.Near)
	assert.Equal(t, float32(1000), c.Far)
}

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera3D().(*Camera3D)
	c.FOV = 75
	c.Far = 250

	w := jsontree.NewWriter()
	require.NoError(t, c.Serialize(w))

	loaded := NewCamera3D().(*Camera3D)
	require.NoError(t, loaded.Deserialize(jsontree.NewReader(w.Document())))
	assert.Equal(t, float32(75), loaded.FOV)
	assert.Equal(t, float32(0.1), loaded.Near)
	assert.Equal(t, float32(250), loaded.Far)
}

func TestCameraKeepsDefaultsForMissingFields(t *testing.T) {
	doc, err := jsontree.Parse(`{"component_id": {"index": 1, "generation": 0},
		"owner_id": {"index": 0, "generation": 0}, "fov_degrees": 90}`)
	require.NoError(t, err)

	c := NewCamera3D().(*Camera3D)
	require.NoError(t, c.Deserialize(jsontree.NewReader(doc)))
	assert.Equal(t, float32(90), c.FOV)
	assert.Equal(t, DefaultNear, c.Near)
	assert.Equal(t, DefaultFar, c.Far)

	doc, err = jsontree.Parse(`{"component_id": {"index": 1, "generation": 0},
		"owner_id": {"index": 0, "generation": 0}, "near_plane": "close"}`)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Deserialize(jsontree.NewReader(doc)), serialization.ErrTypeMismatch)
}

func TestCameraRenderUsesOwnerTransform(t *testing.T) {
	entities, components := newManagers(t)
	withTransform := entities.CreateEntity("rig")
	bare := entities.CreateEntity("bare")

	tr, err := ecs.CreateComponent[*Transform3D](components, withTransform.ID())
	require.NoError(t, err)
	tr.SetPosition(Vector3{X: 1, Y: 2, Z: 3})

	cam, err := ecs.CreateComponent[*Camera3D](components, withTransform.ID())
	require.NoError(t, err)
	other, err := ecs.CreateComponent[*Camera3D](components, bare.ID())
	require.NoError(t, err)

	var published []CameraFrame
	cam.Rendered.Subscribe(func(f CameraFrame) { published = append(published, f) })

	frame := cam.Render(7)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, frame.Position)
	assert.Equal(t, uint64(7), frame.Frame)
	assert.Equal(t, cam.ID(), frame.Camera)
	assert.Equal(t, []CameraFrame{frame}, published)

	assert.Equal(t, DefaultCameraPosition, other.Render(8).Position)
}
