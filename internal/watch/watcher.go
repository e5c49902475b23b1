// Package watch notifies when a loaded save file changes on disk.
//
// The game rewrites campaign.xml on every save, often as several rapid
// writes, so events are debounced before a reload is announced.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long writes must settle before a reload fires.
const DefaultDebounce = 500 * time.Millisecond

// Event announces that the watched save changed.
type Event struct {
	Path string
	At   time.Time
}

// Watcher watches one save file for rewrites.
type Watcher struct {
	mu       sync.Mutex
	fw       *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      *zap.Logger

	events  chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	pending time.Time // last raw event, zero when settled
}

// New creates a watcher for the save file at path. The file's directory
// is watched, since editors and the game replace files via rename.
func New(path string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fw:       fw,
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		log:      log,
		events:   make(chan Event, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce overrides the settle window. Only valid before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Events delivers debounced change notifications.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		// The run goroutine never launches, so undo the running mark and
		// release the fsnotify descriptor here. Stop becomes a no-op.
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.fw.Close()
		return err
	}
	w.log.Debug("watching save", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fw.Close(); err != nil {
		w.log.Warn("error closing watcher", zap.Error(err))
	}
	close(w.events)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			w.flushSettled()
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.log.Debug("save changed", zap.String("op", ev.Op.String()))
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushSettled() {
	w.mu.Lock()
	settled := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
	if settled {
		w.pending = time.Time{}
	}
	w.mu.Unlock()

	if !settled {
		return
	}

	select {
	case w.events <- Event{Path: w.path, At: time.Now()}:
	default:
		// A reload is already queued; dropping is fine, the consumer
		// re-reads the whole file anyway.
	}
}
