package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the catalog whenever the help dump changes on disk and hands
// the fresh result to a callback. The engine rewrites ConsoleHelp.html every
// time the in-game Help command runs, so a long-lived session can pick up new
// commands without restarting.
//
// The parent directory is watched rather than the file itself: the dump may not
// exist yet at startup, and most editors/engines replace the file wholesale.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	path     string // resolved dump path
	onReload func([]Command)
	debounce time.Duration
	log      *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the dump at path (resolved per ResolvePath).
// onReload is invoked from the watcher goroutine with the freshly loaded
// catalog after each settled change.
func NewWatcher(path string, onReload func([]Command), log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fsw:      fsw,
		path:     ResolvePath(path),
		onReload: onReload,
		debounce: 500 * time.Millisecond, // settle rapid rewrites
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; events are handled in a goroutine until
// Stop is called or ctx is cancelled. A watch failure is logged and degrades to
// "no live reload" rather than failing the caller.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		w.log.Warn("catalog watch unavailable", zap.String("dir", dir), zap.Error(err))
	} else {
		w.log.Debug("watching catalog dump", zap.String("path", w.path))
	}

	go w.run(ctx)
	return nil
}

// Stop halts the watcher and waits for the event loop to drain.
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
	_ = w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.log.Debug("catalog dump changed, reloading", zap.String("path", w.path))
			w.onReload(LoadCommands(w.path))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
