package check

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const valid = `types:
  definitions:
    default-package: com.example
    objects:
      Foo:
        fields:
          bar_baz: string
`

const invalid = `types:
  definitions:
    default-package: com.example
    objects:
      Foo:
        fields:
          self: Foo
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCmd_Check(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yml"), valid)

	var stdout, stderr bytes.Buffer
	cmd := &Cmd{Inputs: []string{dir}, stdout: &stdout, stderr: &stderr}
	require.NoError(t, cmd.Run())
	assert.Contains(t, stdout.String(), "✓ "+filepath.Join(dir, "a.yml")+": 1 types, 0 errors, 0 services, 0 endpoints")
	assert.Contains(t, stdout.String(), "! legacy_field_name")
}

func TestCmd_CheckFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yml"), valid)
	writeFile(t, filepath.Join(dir, "b.yml"), invalid)

	var stdout, stderr bytes.Buffer
	cmd := &Cmd{Inputs: []string{dir}, stdout: &stdout, stderr: &stderr}
	err := cmd.Run()
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed", err.Error())
	assert.Contains(t, stdout.String(), "Illegal recursive data type: Foo -> Foo")
}

func TestCmd_CheckStrict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yml"), valid)

	var stdout, stderr bytes.Buffer
	cmd := &Cmd{Inputs: []string{dir}, Option: map[string]string{"strict": "true"}, stdout: &stdout, stderr: &stderr}
	require.Error(t, cmd.Run())
	assert.Contains(t, stdout.String(), "bar_baz")
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yml")
	writeFile(t, path, valid)

	w, err := newWatcher([]string{path}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	defer w.Close()
	w.delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, path, invalid)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_OneCallbackPerBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := newWatcher([]string{dir}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	defer w.Close()
	w.delay = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	go w.Run(ctx, func() { calls.Add(1) })

	event := fsnotify.Event{Name: filepath.Join(dir, "a.yml"), Op: fsnotify.Write}
	for range 5 {
		w.fs.Events <- event
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return calls.Load() > 1 }, 100*time.Millisecond, 5*time.Millisecond)

	w.fs.Events <- event
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 5*time.Millisecond)
}
