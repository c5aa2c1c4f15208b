package engine

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollWatcher wakes the engine for an immediate extra poll when a lane
// file is written, so new output shows up before the next interval
// tick. The interval poll remains the source of truth: if the watcher
// cannot be created the engine degrades to interval-only polling.
type pollWatcher struct {
	fs   *fsnotify.Watcher
	poke func()
	done chan struct{}

	mu       sync.Mutex
	debounce *time.Timer
}

const watchDebounce = 100 * time.Millisecond

func newPollWatcher(dir string, poke func()) (*pollWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}

	w := &pollWatcher{
		fs:   fs,
		poke: poke,
		done: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// add watches an additional directory. Failures are logged and ignored;
// the lane is still covered by interval polling.
func (w *pollWatcher) add(dir string) {
	if err := w.fs.Add(dir); err != nil {
		log.Printf("[watch] failed to watch %s: %v", dir, err)
	}
}

func (w *pollWatcher) stop() {
	close(w.done)
	_ = w.fs.Close()

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
}

func (w *pollWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// Rename covers atomic write-then-rename, the pattern
			// editors and agent tools use for state files.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedulePoke()
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// schedulePoke debounces bursts of writes into one wake-up.
func (w *pollWatcher) schedulePoke() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(watchDebounce, w.poke)
}
