// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches the directory holding the scorecard file, so that editors
// which save by writing a temp file and renaming it over the original are
// still seen, and debounces bursts of events into one callback.
package fsnotify

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must stay quiet before onChange fires.
const DefaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger routes watcher errors to log.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger
	done     chan struct{}
	wg       sync.WaitGroup
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		debounce: DefaultDebounce,
		log:      slog.Default(),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Watch starts monitoring the file at path. onChange fires once per burst
// of writes, creates, renames or removals of that file, after the burst
// has been quiet for the debounce period. Changes to sibling files are
// ignored.
func (w *Watcher) Watch(path string, onChange func()) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fw.Add(filepath.Dir(target)); err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		timer := time.NewTimer(w.debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					timer.Reset(w.debounce)
				}

			case <-timer.C:
				onChange()

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				w.log.Warn("scorecard watcher error", "path", target, "err", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring, waits for an in-flight onChange to return and
// releases all resources. Safe to call multiple times. Must not be called
// from inside onChange.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.done)
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}
