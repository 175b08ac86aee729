// Package watcher implements mtsearch's optional incremental-update
// evolution: after a recursive directory ingest, watch the tree and
// re-run the equivalent of add_file/remove_file on create/write/remove
// events, debounced and filtered by the same include/exclude globs as
// the initial ingest.
package watcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/mtsearch/internal/config"
	"github.com/standardbeagle/mtsearch/internal/debug"
)

// EventType classifies a debounced filesystem change.
type EventType int

const (
	EventChanged EventType = iota
	EventRemoved
)

// Watcher recursively watches a directory tree and delivers debounced,
// include/exclude-filtered change notifications.
type Watcher struct {
	fsw       *fsnotify.Watcher
	cfg       *config.Config
	onChanged func(path string)
	onRemoved func(path string)

	debounce time.Duration
	mu       sync.Mutex
	pending  map[string]EventType
	timer    *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Watcher bound to cfg's include/exclude patterns and
// debounce interval. Callbacks fire on a background goroutine.
func New(cfg *config.Config, onChanged, onRemoved func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fsw:       fsw,
		cfg:       cfg,
		onChanged: onChanged,
		onRemoved: onRemoved,
		debounce:  time.Duration(cfg.Index.WatchDebounceMs) * time.Millisecond,
		pending:   make(map[string]EventType),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start walks root adding a watch on every subdirectory, then begins
// processing events in the background.
func (w *Watcher) Start(root string) error {
	if err := w.addWatches(root); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.run()
	debug.LogIndex("watch: started on %s", root)
	return nil
}

// Stop cancels event processing, closes the fsnotify watcher, and waits
// for the background goroutine to exit.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			debug.LogIndex("watch: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) excluded(path string) bool {
	for _, pattern := range w.cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) included(path string) bool {
	if len(w.cfg.Include) == 0 {
		return true
	}
	for _, pattern := range w.cfg.Include {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.LogIndex("watch: error %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if w.excluded(path) || !w.included(path) {
		return
	}

	var kind EventType
	switch {
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		kind = EventRemoved
	case event.Op&fsnotify.Create != 0, event.Op&fsnotify.Write != 0:
		kind = EventChanged
	default:
		return
	}
	w.schedule(path, kind)
}

func (w *Watcher) schedule(path string, kind EventType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = kind
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	events := w.pending
	w.pending = make(map[string]EventType)
	w.mu.Unlock()

	for path, kind := range events {
		switch kind {
		case EventRemoved:
			if w.onRemoved != nil {
				w.onRemoved(path)
			}
		case EventChanged:
			if w.onChanged != nil {
				w.onChanged(path)
			}
		}
	}
}
