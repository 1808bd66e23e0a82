// Package watcher watches the dataset directory with fsnotify and triggers
// a corpus rebuild when collection files change, with debouncing.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 2 * time.Second

// dataExtensions are the collection file types that trigger a rebuild.
var dataExtensions = []string{".json", ".xlsx"}

// Watcher watches the dataset directory and invokes the rebuild callback
// after changes settle. Any number of change events inside the debounce
// window collapse into a single rebuild.
type Watcher struct {
	root      string
	onRebuild func()
	debounce  time.Duration
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	timer     *time.Timer
	done      chan struct{}
	started   bool
	stopOnce  sync.Once
	logger    *zap.Logger // optional; when set, logs debug events
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the settle window before a rebuild fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher over the dataset root. onRebuild is called
// after changes settle.
func NewWatcher(root string, onRebuild func(), opts ...Option) *Watcher {
	w := &Watcher{
		root:      root,
		onRebuild: onRebuild,
		debounce:  defaultDebounce,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	root := filepath.Clean(w.root)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := os.MkdirAll(root, 0755); err != nil {
			w.mu.Unlock()
			return err
		}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	if w.logger != nil {
		w.logger.Debug("watcher starting", zap.String("root", root))
	}
	w.mu.Unlock()
	// The event loop reads the channels directly, not w.watcher: Stop nils
	// the field and must never race the loop. Closing the watcher closes
	// both channels, which ends the loop.
	go w.run(ctx, watcher.Events, watcher.Errors)
	return nil
}

func (w *Watcher) run(ctx context.Context, events chan fsnotify.Event, errors chan error) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !matchExtension(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))
	}
	w.scheduleRebuild()
}

func matchExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range dataExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// scheduleRebuild resets the settle timer; the rebuild fires once the
// directory stays quiet for the debounce window.
func (w *Watcher) scheduleRebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		logger := w.logger
		w.mu.Unlock()
		if logger != nil {
			logger.Debug("watcher triggering rebuild (debounced)")
		}
		if w.onRebuild != nil {
			w.onRebuild()
		}
	})
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
