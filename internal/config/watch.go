package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/editsync/internal/debounce"
	"github.com/dshills/editsync/internal/logging"
)

// DefaultWatchDebounce coalesces the bursts of events one save produces.
const DefaultWatchDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned by operations on a closed watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.period = d
		}
	}
}

// WithReloadScheduler sets where reloads run. An event loop scheduler keeps
// them on the loop goroutine.
func WithReloadScheduler(s debounce.Scheduler) WatchOption {
	return func(w *Watcher) {
		w.scheduler = s
	}
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(l *logging.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithReloadError calls fn when a changed file fails to load or the
// underlying watcher reports an error.
func WithReloadError(fn func(error)) WatchOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher reloads a document whenever its file is written or replaced.
//
// The containing directory is watched rather than the file, so editors that
// save by renaming a temporary file over the original keep being seen.
type Watcher struct {
	path      string
	period    time.Duration
	scheduler debounce.Scheduler
	logger    *logging.Logger
	onLoad    func(*Document)
	onError   func(error)

	fsw    *fsnotify.Watcher
	reload *debounce.Func[struct{}]

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Watch starts watching path. onLoad receives every document that loads
// successfully after a change; the initial load is the caller's.
func Watch(path string, onLoad func(*Document), opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := FormatOf(abs); err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		period:  DefaultWatchDebounce,
		logger:  logging.Default(),
		onLoad:  onLoad,
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config").WithField("path", abs)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	w.reload = debounce.New(func(struct{}) { w.load() }, w.period, debounce.WithScheduler(w.scheduler))

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// processLoop forwards relevant fsnotify events to the debounced reload.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.logger.Debug("change: %s", ev.Op)
				w.reload.Call(struct{}{})
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(fmt.Errorf("watching %s: %w", w.path, err))
		}
	}
}

// relevant reports whether ev may have changed the watched file's content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)
}

func (w *Watcher) load() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	doc, err := Load(w.path)
	if err != nil {
		w.report(err)
		return
	}
	w.logger.Info("reloaded")
	if w.onLoad != nil {
		w.onLoad(doc)
	}
}

func (w *Watcher) report(err error) {
	w.logger.Warn("%v", err)
	if w.onError != nil {
		w.onError(err)
	}
}

// Flush runs a pending reload now.
func (w *Watcher) Flush() bool {
	return w.reload.Flush()
}

// Close stops watching. A pending reload is dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	w.reload.Cancel()
	return w.fsw.Close()
}
