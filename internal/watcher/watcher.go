// Package watcher reports changes to individual files, debounced so that an
// editor's save burst (truncate, write, chmod, rename) arrives as one batch.
package watcher

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
	"github.com/conneroisu/pagebuilder/internal/logging"
)

// DefaultDelay is how long the watcher waits for a burst to settle.
const DefaultDelay = 100 * time.Millisecond

// ErrCodeWatch is reported when a file cannot be watched.
const ErrCodeWatch = "WATCH_FAILED"

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is the last change seen for one file within a batch.
type ChangeEvent struct {
	Type EventType
	Path string
}

// Handler receives each debounced batch, ordered by path.
type Handler func(ctx context.Context, events []ChangeEvent) error

// Watcher watches a set of files. It watches their parent directories so
// that files replaced by rename, as many editors save, keep being seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	delay  time.Duration
	logger logging.Logger
	files  map[string]struct{}
	dirs   map[string]struct{}
}

// New creates a watcher. A non-positive delay means DefaultDelay.
func New(delay time.Duration, logger logging.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, builderrors.NewIOError(ErrCodeWatch, "create file watcher", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		fs:     fs,
		delay:  delay,
		logger: logger.WithComponent("watcher"),
		files:  make(map[string]struct{}),
		dirs:   make(map[string]struct{}),
	}, nil
}

// Add starts watching path. Call before Run.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return builderrors.NewIOError(ErrCodeWatch, "resolve "+path, err)
	}
	dir := filepath.Dir(abs)
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fs.Add(dir); err != nil {
			return builderrors.NewIOError(ErrCodeWatch, "watch "+dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	return nil
}

// Run delivers batches to handle until ctx is done or the watcher is
// closed. Handler errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	var (
		pending = make(map[string]EventType)
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if _, watched := w.files[name]; !watched || ev.Op == fsnotify.Chmod {
				continue
			}
			pending[name] = eventType(ev)
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, err, "File watcher error")

		case <-fire:
			fire = nil
			batch := drain(pending)
			w.logger.Debug(ctx, "Files changed", "count", len(batch))
			if err := handle(ctx, batch); err != nil {
				w.logger.Warn(ctx, err, "Change handler failed")
			}
		}
	}
}

// Close stops watching. A running Run returns nil.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func eventType(ev fsnotify.Event) EventType {
	switch {
	case ev.Has(fsnotify.Create):
		return EventTypeCreated
	case ev.Has(fsnotify.Remove):
		return EventTypeDeleted
	case ev.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

func drain(pending map[string]EventType) []ChangeEvent {
	batch := make([]ChangeEvent, 0, len(pending))
	for path, typ := range pending {
		batch = append(batch, ChangeEvent{Type: typ, Path: path})
		delete(pending, path)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	return batch
}
