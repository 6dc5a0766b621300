package savefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the write+rename pair an atomic save produces
// into a single event.
const watchDebounce = 100 * time.Millisecond

// Event reports that a save file changed on disk.
type Event struct {
	Path      string
	Timestamp time.Time
}

// Watcher emits debounced change events for save files in the save
// directory. Temp files from in-flight writes are ignored.
type Watcher struct {
	fw     *fsnotify.Watcher
	events chan Event
	done   chan struct{}

	mu     sync.Mutex
	timers map[string]*time.Timer

	wg sync.WaitGroup
}

// Watch starts watching the save directory, creating it if needed.
func (s *Store) Watch() (*Watcher, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(s.dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch save directory: %w", err)
	}

	w := &Watcher{
		fw:     fw,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Events returns the channel change events are delivered on. Delivery
// stops after Close; the channel is never closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher and cancels any pending debounced events.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}

	close(w.done)

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !isSaveName(filepath.Base(ev.Name)) {
				continue
			}
			w.schedule(ev.Name)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// schedule arms a per-path debounce timer, resetting any pending one.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}

	w.timers[path] = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case <-w.done:
		case w.events <- Event{Path: path, Timestamp: time.Now()}:
		default:
		}
	})
}

// isSaveName reports whether a filename is a finished save file, not a
// temp file from an in-flight atomic write.
func isSaveName(name string) bool {
	ok, err := doublestar.Match(savePattern, name)
	return err == nil && ok
}
