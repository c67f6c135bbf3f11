// Package watcher reports changes to a configuration file.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still seen.
// Bursts of events for the file are coalesced into one callback.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified or created.
	OpWrite Operation = iota

	// OpRemove indicates the file was deleted or renamed away.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last coalesced change was seen.
	Time time.Time
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors one file for changes.
type Watcher struct {
	path     string
	debounce time.Duration
	errors   func(error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives errors reported by the file system watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.errors = fn
	}
}

// New creates a watcher for path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: 100 * time.Millisecond,
		errors:   func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches the file until ctx is done, calling handler after each
// settled burst of changes. A panic in handler is recovered and reported
// to the error handler.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	var (
		mu      sync.Mutex
		pending *Event
		timer   *time.Timer
	)
	fire := func() {
		mu.Lock()
		ev := pending
		pending = nil
		mu.Unlock()
		if ev != nil {
			w.safeCall(handler, *ev)
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fsEvent, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(fsEvent.Name) != w.path {
				continue
			}
			op, relevant := convertOp(fsEvent.Op)
			if !relevant {
				continue
			}

			mu.Lock()
			pending = coalesce(pending, Event{Path: w.path, Op: op, Time: time.Now()})
			if w.debounce == 0 {
				mu.Unlock()
				fire()
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.errors(err)
		}
	}
}

// coalesce merges a new event into a pending one. The latest operation
// wins, so a rename followed by a create reports a write.
func coalesce(pending *Event, next Event) *Event {
	if pending == nil {
		return &next
	}
	pending.Op = next.Op
	pending.Time = next.Time
	return pending
}

// convertOp maps fsnotify operations onto the two this package reports.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return OpWrite, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	default:
		return 0, false
	}
}

func (w *Watcher) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.errors(fmt.Errorf("watch handler panic: %v", r))
		}
	}()
	handler(event)
}
