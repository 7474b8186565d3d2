// Package watcher emits save events for a working tree.
//
// It wraps fsnotify with recursive directory registration and a short
// duplicate-suppression window, so editor double-writes (write + truncate,
// atomic rename) surface as one save event. Commit debouncing is NOT done
// here; the engine's scheduler owns that.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/valksor/go-wachter/internal/log"
)

// SaveEvent is one observed file save.
type SaveEvent struct {
	Path string // absolute path of the saved file
	Time time.Time
}

// Watcher watches a tree and emits SaveEvents.
type Watcher struct {
	fsw  *fsnotify.Watcher
	root string

	events chan SaveEvent

	mu       sync.Mutex
	lastSeen map[string]time.Time
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup

	// suppress drops repeat events for the same path inside this window.
	suppress time.Duration
}

// ignoredDirs are never registered for watching.
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".wachter":     true,
}

// New creates a watcher rooted at the given directory and registers all
// subdirectories.
func New(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		root:     absRoot,
		events:   make(chan SaveEvent, 128),
		lastSeen: make(map[string]time.Time),
		done:     make(chan struct{}),
		suppress: 50 * time.Millisecond,
	}

	if err := w.addRecursive(absRoot); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Events returns the save event channel.
func (w *Watcher) Events() <-chan SaveEvent {
	return w.events
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not fatal
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (ignoredDirs[name] || strings.HasPrefix(name, ".git")) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	if w.ignored(ev.Name) {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		// New directories join the watch set.
		if ev.Has(fsnotify.Create) {
			_ = w.addRecursive(ev.Name)
		}
		return
	}

	now := time.Now()
	w.mu.Lock()
	if last, ok := w.lastSeen[ev.Name]; ok && now.Sub(last) < w.suppress {
		w.mu.Unlock()
		return
	}
	w.lastSeen[ev.Name] = now
	w.mu.Unlock()

	select {
	case w.events <- SaveEvent{Path: ev.Name, Time: now}:
	default:
		// Drop when the consumer lags; the scheduler coalesces anyway.
	}
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if ignoredDirs[part] {
			return true
		}
	}
	return false
}
