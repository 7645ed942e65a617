package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetra-engine/tetra/internal/core/stage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStageNewAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.stage")

	out, err := execute(t, "stage", "new", path, "--name", "Main")
	require.NoError(t, err)
	assert.Contains(t, out, "created stage Main")

	text, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "{\n    "), "pretty by default")

	out, err = execute(t, "stage", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: Main")
	assert.Contains(t, out, "0 entities, 0 components")

	_, err = execute(t, "stage", "new", path)
	assert.ErrorContains(t, err, "already exists")
	_, err = execute(t, "stage", "new", path, "--force")
	assert.NoError(t, err)
}

func TestStageCheckDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.stage")
	doc := `{"guid":"6f1c2b9e-3d4a-4b5c-8d7e-9f0a1b2c3d4e","name":"S",` +
		`"entity_manager":{"entities":[]},"component_manager":{"components":[]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := execute(t, "stage", "check", path)
	assert.ErrorIs(t, err, stage.ErrDocumentDrift, "a missing version is added on save")
}

func TestStageCheckSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.stage")
	second := filepath.Join(dir, "second.stage")
	_, err := execute(t, "stage", "new", first, "--name", "First")
	require.NoError(t, err)
	_, err = execute(t, "stage", "new", second, "--name", "Second")
	require.NoError(t, err)

	out, err := execute(t, "stage", "check", first, second, "--jobs", "1")
	require.NoError(t, err)
	firstAt, secondAt := strings.Index(out, "ok: First"), strings.Index(out, "ok: Second")
	require.GreaterOrEqual(t, firstAt, 0)
	assert.Greater(t, secondAt, firstAt, "reports keep argument order")

	_, err = execute(t, "stage", "check", first, filepath.Join(dir, "missing.stage"))
	assert.ErrorIs(t, err, stage.ErrStageFileNotFound)
	assert.ErrorContains(t, err, "tetra stage new")
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tetra.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("stage:\n  pretty: false\n"), 0o644))
	path := filepath.Join(dir, "compact.stage")

	_, err := execute(t, "--config", cfgPath, "stage", "new", path)
	require.NoError(t, err)
	text, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(text), "\n"))

	_, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "stage", "new", path)
	assert.Error(t, err)
}

func TestRunMissingProject(t *testing.T) {
	_, err := execute(t, "--config", writeSilentConfig(t), "run", t.TempDir())
	assert.Error(t, err)
}

func TestRunProject(t *testing.T) {
	dir := t.TempDir()
	project := `{"project_name":"Demo","engine_version":"0.1.0","project_definition_version":"1"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.tetra"), []byte(project), 0o644))

	_, err := execute(t, "--config", writeSilentConfig(t), "run", dir, "--max-frames", "3", "--headless")
	assert.NoError(t, err)
}

func writeSilentConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tetra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: silent\nengine:\n  max_fps: 0\n"), 0o644))
	return path
}
