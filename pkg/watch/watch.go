// Package watch re-runs translation when input headers change. Events are
// debounced so a burst of editor writes produces one regeneration.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher monitors a fixed set of header files. Each header's directory is
// watched and events are filtered back down to the headers themselves.
type Watcher struct {
	watcher      *fsnotify.Watcher
	headers      map[string]bool
	debounceTime time.Duration

	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
}

// New builds a watcher over the given header paths.
func New(headers []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:      fsw,
		headers:      make(map[string]bool),
		debounceTime: defaultDebounce,
		accumulated:  make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, h := range headers {
		abs, err := filepath.Abs(h)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.headers[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Run blocks, invoking callback with the batch of changed headers after
// each quiet period, until the context is cancelled.
func (w *Watcher) Run(ctx context.Context, callback func(files []string)) error {
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopDebounceTimer()
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.accumulatedMu.Lock()
			w.accumulated[event.Name] = true
			w.accumulatedMu.Unlock()

			w.resetDebounceTimer(fire)

		case <-fire:
			if files := w.drain(); len(files) > 0 {
				callback(files)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func (w *Watcher) drain() []string {
	w.accumulatedMu.Lock()
	defer w.accumulatedMu.Unlock()

	files := make([]string, 0, len(w.accumulated))
	for f := range w.accumulated {
		files = append(files, f)
	}
	w.accumulated = make(map[string]bool)
	return files
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.headers[abs]
}

// resetDebounceTimer restarts the quiet-period timer, draining a timer
// that already fired.
func (w *Watcher) resetDebounceTimer(fire chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}
