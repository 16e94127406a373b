// pattern: Imperative Shell

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it is written, created or renamed
// into place. A polling ticker backs up fsnotify for filesystems that drop
// events.
type Watcher struct {
	path     string
	poll     time.Duration
	onChange func(Config)
	onError  func(error)
	watcher  *fsnotify.Watcher
	lastMod  time.Time
}

// NewWatcher prepares a watcher for path. onChange receives every
// successfully parsed config; onError receives parse and watch errors.
func NewWatcher(path string, onChange func(Config), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		path:     path,
		poll:     5 * time.Second,
		onChange: onChange,
		onError:  onError,
		watcher:  fw,
	}, nil
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	// Watch the directory so editors that replace the file are seen.
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.lastMod = w.modTime()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reload()
			}

		case <-ticker.C:
			if mod := w.modTime(); mod.After(w.lastMod) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) reload() {
	w.lastMod = w.modTime()
	cfg, err := LoadFrom(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	if err := cfg.Validate(); err != nil {
		w.onError(err)
		return
	}
	w.onChange(cfg)
}

func (w *Watcher) modTime() time.Time {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
