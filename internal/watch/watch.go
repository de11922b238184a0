// Package watch monitors the source documents directory and drives a full
// rebuild on every filesystem change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Orchestrator watches a source root and re-runs the build pipeline on any
// create, delete or modify event. Rebuilds are single-flight by construction:
// one blocking rebuild per loop iteration, no coalescing of bursts.
type Orchestrator struct {
	root    string
	builder *site.Builder
}

// New creates an Orchestrator over root driving builder.
func New(root string, builder *site.Builder) *Orchestrator {
	return &Orchestrator{root: root, builder: builder}
}

// Run establishes the filesystem watch and loops until ctx is canceled.
// Failure to establish the watch is returned as a fatal error. Cancellation
// is cooperative: the context is consulted at each event-wait boundary, a
// rebuild in flight is never interrupted.
func (o *Orchestrator) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("establish filesystem watch: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, o.root); err != nil {
		return fmt.Errorf("watch %s: %w", o.root, err)
	}

	slog.Info("Watching for changes", logfields.Dir(o.root))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Directories created under the root need their own watch.
			if ev.Op&fsnotify.Create != 0 {
				if fi, statErr := os.Stat(ev.Name); statErr == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			slog.Info("Change detected; rebuilding site", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
			o.rebuild(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// rebuild runs one full pass. A context error means cancellation raced the
// event; shutdown is handled at the next wait boundary, not reported as a
// rebuild failure.
func (o *Orchestrator) rebuild(ctx context.Context) {
	if _, err := o.builder.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		slog.Error("Rebuild failed", logfields.Error(err))
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("add watch for %s: %w", path, err)
		}
		return nil
	})
}
