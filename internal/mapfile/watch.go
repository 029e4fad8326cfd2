package mapfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/udisondev/hearth/internal/sim"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Submitter accepts simulation commands.
type Submitter interface {
	Submit(ctx context.Context, cmd sim.Command) error
}

// Watcher reloads a map file when it changes and submits the result as a
// map edit. Invalid edits are logged and skipped; the running map stays.
type Watcher struct {
	path     string
	sink     Submitter
	debounce time.Duration
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, sink Submitter) *Watcher {
	return &Watcher{path: filepath.Clean(path), sink: sink, debounce: DefaultDebounce}
}

// SetDebounce overrides DefaultDebounce.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file itself because editors replace files by rename.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating map watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	slog.Info("watching map file", "path", w.path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("map watcher error", "error", err)

		case <-timer.C:
			if err := w.reload(ctx); err != nil {
				if errors.Is(err, sim.ErrStopped) || ctx.Err() != nil {
					return nil
				}
				slog.Warn("map reload skipped", "path", w.path, "error", err)
			}
		}
	}
}

func (w *Watcher) reload(ctx context.Context) error {
	m, err := Load(w.path)
	if err != nil {
		return err
	}
	if err := w.sink.Submit(ctx, sim.ApplyMapEdit{Map: m}); err != nil {
		return fmt.Errorf("submitting map edit: %w", err)
	}
	slog.Info("map reloaded", "path", w.path, "rooms", len(m.Rooms), "interactables", len(m.Interactables))
	return nil
}
