package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemRegistry(t *testing.T, files map[string]string) *Registry {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("scripts", 0o755))
	for name, content := range files {
		path := filepath.Join("scripts", name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	registry := NewRegistry(fs, "scripts")
	require.NoError(t, registry.Load())
	return registry
}

func TestRegistry_Load(t *testing.T) {
	t.Run("loads script files", func(t *testing.T) {
		registry := newMemRegistry(t, map[string]string{
			"double.tengo": "result := x * 2",
			"triple.tengo": "result := x * 3",
		})

		assert.Equal(t, 2, registry.Count(), "Both script files should load")
		assert.Equal(t, []string{"double", "triple"}, registry.List())

		script, err := registry.Get("double")
		require.NoError(t, err)
		assert.Equal(t, "double", script.Name)
		assert.Equal(t, "result := x * 2", script.Content)
		assert.NotEmpty(t, script.Checksum)
	})

	t.Run("subdirectories become name prefixes", func(t *testing.T) {
		registry := newMemRegistry(t, map[string]string{
			"alerts/notify.tengo": "result := true",
		})

		script, err := registry.Get("alerts/notify")
		require.NoError(t, err)
		assert.Equal(t, "alerts/notify", script.Name)
	})

	t.Run("ignores other file types", func(t *testing.T) {
		registry := newMemRegistry(t, map[string]string{
			"double.tengo": "result := x * 2",
			"notes.txt":    "not a script",
		})

		assert.Equal(t, []string{"double"}, registry.List())
	})

	t.Run("missing directory is not an error", func(t *testing.T) {
		registry := NewRegistry(afero.NewMemMapFs(), "nonexistent")
		require.NoError(t, registry.Load())
		assert.Equal(t, 0, registry.Count())
	})
}

func TestRegistry_Get(t *testing.T) {
	registry := newMemRegistry(t, map[string]string{
		"double.tengo": "result := x * 2",
	})

	t.Run("unknown script", func(t *testing.T) {
		_, err := registry.Get("missing")
		require.Error(t, err)

		var scriptErr *Error
		require.ErrorAs(t, err, &scriptErr)
		assert.Equal(t, ErrorTypeNotFound, scriptErr.Type)
		assert.Equal(t, "missing", scriptErr.Script)
	})
}

func TestRegistry_Reload(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("scripts", 0o755))
	require.NoError(t, afero.WriteFile(fs, "scripts/greet.tengo", []byte(`result := "hello"`), 0o644))

	registry := NewRegistry(fs, "scripts")
	require.NoError(t, registry.Load())

	require.NoError(t, afero.WriteFile(fs, "scripts/greet.tengo", []byte(`result := "goodbye"`), 0o644))
	require.NoError(t, registry.Reload("greet"))

	script, err := registry.Get("greet")
	require.NoError(t, err)
	assert.Equal(t, `result := "goodbye"`, script.Content, "Reload should pick up the new content")

	err = registry.Reload("missing")
	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, ErrorTypeNotFound, scriptErr.Type)
}

func TestRegistry_WatcherSkipsMemoryFs(t *testing.T) {
	registry := newMemRegistry(t, map[string]string{
		"double.tengo": "result := x * 2",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, registry.StartWatcher(ctx))
	assert.False(t, registry.watcherActive, "Watching an in-memory filesystem should be skipped")
}

func TestRegistry_HotReloading(t *testing.T) {
	tempDir := t.TempDir()
	scriptsDir := filepath.Join(tempDir, "scripts")
	require.NoError(t, os.MkdirAll(scriptsDir, 0o755))

	scriptPath := filepath.Join(scriptsDir, "dynamic.tengo")
	require.NoError(t, os.WriteFile(scriptPath, []byte("result := 1"), 0o644))

	registry := NewRegistry(afero.NewOsFs(), scriptsDir)
	require.NoError(t, registry.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, registry.StartWatcher(ctx))
	defer registry.StopWatcher()

	// Give watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	script, err := registry.Get("dynamic")
	require.NoError(t, err)
	assert.Equal(t, "result := 1", script.Content)

	// Modify the script file
	require.NoError(t, os.WriteFile(scriptPath, []byte("result := 2"), 0o644))
	time.Sleep(200 * time.Millisecond)

	script, err = registry.Get("dynamic")
	require.NoError(t, err)
	assert.Equal(t, "result := 2", script.Content, "Watcher should hot-swap modified scripts")

	// Create a new script file
	require.NoError(t, os.WriteFile(filepath.Join(scriptsDir, "fresh.tengo"), []byte("result := 42"), 0o644))
	time.Sleep(200 * time.Millisecond)

	script, err = registry.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, "result := 42", script.Content, "Watcher should pick up new scripts")

	// Remove a script file
	require.NoError(t, os.Remove(scriptPath))
	time.Sleep(200 * time.Millisecond)

	_, err = registry.Get("dynamic")
	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr, "Deleted scripts should drop out of the registry")
	assert.Equal(t, ErrorTypeNotFound, scriptErr.Type)
}
