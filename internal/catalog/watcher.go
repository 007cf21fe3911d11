package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const (
	debounceDelay = 300 * time.Millisecond
	pollInterval  = 100 * time.Millisecond
)

// Watcher reloads a catalog file whenever it changes on disk. The parent
// directory is watched rather than the file itself so that editors which
// replace the file on save are still picked up.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	pending  time.Time
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
	onReload func([]Entry)
	onError  func(error)
}

func NewWatcher(path string, onReload func([]Entry), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve catalog path")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	return &Watcher{
		path:     abs,
		watcher:  fsw,
		stop:     make(chan struct{}),
		onReload: onReload,
		onError:  onError,
	}, nil
}

// Start blocks until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", w.path)
	}

	go w.processEvents(ctx)
	go w.processPending(ctx)

	select {
	case <-ctx.Done():
	case <-w.stop:
	}
	return nil
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.watcher.Close() //nolint:errcheck
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.fail(errors.Wrap(err, "watch error"))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isCatalogEvent(event, w.path) {
		return
	}

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processPending(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.reloadIfSettled()
		}
	}
}

func (w *Watcher) reloadIfSettled() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < debounceDelay {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	entries, err := Load(w.path)
	if err != nil {
		w.fail(err)
		return
	}

	if w.onReload != nil {
		w.onReload(entries)
	}
}

func (w *Watcher) fail(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
