package inputs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/conjure"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.yml"))
	touch(t, filepath.Join(dir, "a.yaml"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "nested", "c.yml"))

	files, err := Expand([]string{dir, filepath.Join(dir, "b.yml"), filepath.Join(dir, "nested", "c.yml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yml"),
	}, files)
}

func TestExpand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Expand([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .yml or .yaml files")

	_, err = Expand([]string{filepath.Join(dir, "missing.yml")})
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("api.yml"))
	assert.True(t, IsSource("API.YAML"))
	assert.False(t, IsSource("api.json"))
	assert.False(t, IsSource("yml"))
}

func TestCompiler(t *testing.T) {
	logger := Logger(&bytes.Buffer{}, false)

	c, err := Compiler(map[string]string{"strict": "true", "safety-declarations": "required"}, logger)
	require.NoError(t, err)
	assert.Equal(t, conjure.Options{Strict: true, SafetyDeclarations: conjure.SafetyRequired}, c.Options())

	_, err = Compiler(map[string]string{"strict": "maybe"}, logger)
	require.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	Logger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	Logger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
