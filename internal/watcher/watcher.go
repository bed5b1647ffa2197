// Package watcher reports files that have settled after create or write
// activity in a directory tree. Uploaders and editors write in bursts, so
// raw notifications are debounced per path and a file is reported once,
// after its writes stop.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a path must stay quiet before it is reported.
const DefaultSettle = 500 * time.Millisecond

// Watcher turns raw filesystem notifications into settled-file events.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *slog.Logger
	settle time.Duration
	events chan string

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for watch errors and dropped events.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSettle overrides the debounce window.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New watches root and its existing subdirectories. Directories created
// later under a watched directory join the watch automatically.
func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:    fsw,
		logger: slog.Default(),
		settle: DefaultSettle,
		events: make(chan string, 16),
		timers: make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if err := fsw.Add(filepath.Join(root, e.Name())); err != nil {
				w.logger.Warn("could not watch subdirectory", "dir", e.Name(), "err", err)
			}
		}
	}
	return w, nil
}

// Events returns the channel of settled file paths. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan string { return w.events }

// Close releases the OS watches, which also makes Run return.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run pumps notifications until the watcher is closed. It owns the events
// channel and closes it on return.
func (w *Watcher) Run() {
	defer w.shutdown()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if ev.Op.Has(fsnotify.Create) {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.logger.Warn("could not watch new directory", "dir", ev.Name, "err", err)
			}
		}
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[ev.Name]; ok {
		timer.Reset(w.settle)
		return
	}
	path := ev.Name
	w.timers[path] = time.AfterFunc(w.settle, func() { w.fire(path) })
}

// fire reports a settled path. Temp files that vanished while settling are
// skipped; if the consumer has fallen behind, the event is dropped rather
// than blocking the timer goroutine.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.timers, path)
	if w.closed {
		return
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return
	}
	select {
	case w.events <- path:
	default:
		w.logger.Warn("event dropped, consumer too slow", "path", path)
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.closed = true
	close(w.events)
}
