package script

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

const scriptExt = ".tengo"

// Registry loads and serves Tengo scripts from a directory. Scripts in
// subdirectories are addressed with slash-separated names ("alerts/notify"
// for alerts/notify.tengo).
type Registry struct {
	mu            sync.RWMutex
	fs            afero.Fs
	dir           string
	scripts       map[string]*Script
	watcher       *fsnotify.Watcher
	watcherActive bool
}

// NewRegistry creates a registry that reads scripts from dir on the given
// filesystem. Tests pass afero.NewMemMapFs.
func NewRegistry(fs afero.Fs, dir string) *Registry {
	return &Registry{
		fs:      fs,
		dir:     dir,
		scripts: make(map[string]*Script),
	}
}

// Load discovers and loads all script files under the registry directory.
func (r *Registry) Load() error {
	exists, err := afero.DirExists(r.fs, r.dir)
	if err != nil {
		return fmt.Errorf("failed to check scripts directory %s: %w", r.dir, err)
	}
	if !exists {
		slog.Debug("Scripts directory does not exist", "path", r.dir)
		return nil
	}

	loaded := 0
	err = afero.Walk(r.fs, r.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), scriptExt) {
			return nil
		}

		script, err := r.loadPath(path)
		if err != nil {
			slog.Error("Failed to read script file", "path", path, "error", err)
			return nil // continue with other files
		}

		r.store(script)
		loaded++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load scripts from %s: %w", r.dir, err)
	}

	slog.Info("Loaded scripts", "dir", r.dir, "count", loaded)
	return nil
}

// Get retrieves a script by name.
func (r *Registry) Get(name string) (*Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if script, exists := r.scripts[name]; exists {
		return script, nil
	}

	return nil, NewError(
		ErrorTypeNotFound,
		name,
		fmt.Sprintf("script not found: %s", name),
		nil,
	)
}

// Reload re-reads a loaded script from its file.
func (r *Registry) Reload(name string) error {
	r.mu.RLock()
	script, exists := r.scripts[name]
	r.mu.RUnlock()

	if !exists {
		return NewError(
			ErrorTypeNotFound,
			name,
			fmt.Sprintf("script not found: %s", name),
			nil,
		)
	}

	reloaded, err := r.loadPath(script.Path)
	if err != nil {
		return fmt.Errorf("failed to reload script %s: %w", name, err)
	}

	r.store(reloaded)
	slog.Info("Reloaded script", "script", name, "path", script.Path)
	return nil
}

// List returns the names of all loaded scripts, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of loaded scripts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scripts)
}

// StartWatcher begins monitoring script files for changes and hot-swaps
// their content as they are written, created, or removed. Watching needs a
// real directory, so it is skipped for in-memory filesystems.
func (r *Registry) StartWatcher(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watcherActive {
		slog.Debug("Script watcher already active")
		return nil
	}

	if _, ok := r.fs.(*afero.OsFs); !ok {
		slog.Debug("Script watcher requires the OS filesystem, skipping", "dir", r.dir)
		return nil
	}

	exists, err := afero.DirExists(r.fs, r.dir)
	if err != nil || !exists {
		slog.Debug("Scripts directory does not exist, skipping watcher setup", "path", r.dir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}

	// Watch the scripts directory and all subdirectories.
	err = afero.Walk(r.fs, r.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				slog.Error("Failed to add directory to watcher", "path", path, "error", err)
				return err
			}
			slog.Debug("Added directory to watcher", "path", path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to add directories to watcher: %w", err)
	}

	r.watcher = watcher
	r.watcherActive = true

	go r.watchFiles(ctx)

	slog.Debug("Started file system watcher for script hot-reloading", "directory", r.dir)
	return nil
}

// StopWatcher stops the file system watcher.
func (r *Registry) StopWatcher() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
		r.watcherActive = false
		slog.Info("File system watcher stopped")
	}
}

// watchFiles handles file system events
func (r *Registry) watchFiles(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		if r.watcher != nil {
			r.watcher.Close()
			r.watcher = nil
		}
		r.watcherActive = false
		r.mu.Unlock()
		slog.Info("File system watcher stopped")
	}()

	// Capture the channels once; StopWatcher nils out r.watcher.
	r.mu.RLock()
	watcher := r.watcher
	r.mu.RUnlock()
	if watcher == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			slog.Debug("File system watcher context cancelled")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				slog.Debug("File system watcher events channel closed")
				return
			}
			r.handleFileEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				slog.Debug("File system watcher errors channel closed")
				return
			}
			slog.Error("File system watcher error", "error", err)
		}
	}
}

// handleFileEvent processes individual file system events
func (r *Registry) handleFileEvent(event fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(event.Name), scriptExt) {
		return
	}

	name, err := r.nameForPath(event.Name)
	if err != nil {
		slog.Debug("Failed to parse script path", "path", event.Name, "error", err)
		return
	}

	slog.Debug("File system event", "event", event.Op.String(), "path", event.Name, "script", name)

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create:
		script, err := r.loadPath(event.Name)
		if err != nil {
			slog.Error("Failed to reload changed script", "script", name, "path", event.Name, "error", err)
			return
		}
		r.store(script)
		slog.Info("Hot-reloaded script", "script", name, "path", event.Name)

	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		r.remove(name)
	}
}

// loadPath reads a script file and builds its Script entry.
func (r *Registry) loadPath(path string) (*Script, error) {
	name, err := r.nameForPath(path)
	if err != nil {
		return nil, err
	}

	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, err
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		return nil, err
	}

	return &Script{
		Name:         name,
		Path:         path,
		Content:      string(content),
		LastModified: info.ModTime(),
		Checksum:     checksum(string(content)),
	}, nil
}

// nameForPath derives a script name from a file path under the registry
// directory.
func (r *Registry) nameForPath(path string) (string, error) {
	rel, err := filepath.Rel(r.dir, path)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %s is not within the scripts directory", path)
	}

	name := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	if name == "" {
		return "", fmt.Errorf("empty script name from path: %s", path)
	}
	return name, nil
}

func (r *Registry) store(script *Script) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[script.Name] = script

	slog.Debug("Loaded script",
		"script", script.Name,
		"path", script.Path,
		"size", len(script.Content),
	)
}

func (r *Registry) remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scripts[name]; exists {
		delete(r.scripts, name)
		slog.Info("Removed script after file deletion", "script", name)
	}
}

// checksum creates a checksum for script content
func checksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", hash)
}
