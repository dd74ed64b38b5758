// Package watcher watches variables files on disk for clients that cannot
// register file watchers themselves.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/variables"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reporting.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to the files selected by a set of variables
// file patterns.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	patterns []string
	onChange func(paths []string)
	debounce time.Duration

	// recursive holds the directories whose whole tree is watched
	recursive []string

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	closed  bool
}

// New creates a watcher for patterns relative to root. onChange receives
// the changed paths after each debounced burst of events.
func New(root string, patterns []string, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		root:     root,
		patterns: patterns,
		onChange: onChange,
		debounce: DefaultDebounce,
		pending:  map[string]struct{}{},
	}, nil
}

// SetDebounce changes the debounce interval. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start watches the directories the patterns depend on and processes
// events until ctx is done or Close is called. Only globs that reach into
// subdirectories have their whole tree watched; a literal path watches its
// parent directory alone. Directories that do not exist are skipped.
func (w *Watcher) Start(ctx context.Context) error {
	var added int
	for _, dir := range variables.WatchDirs(w.root, w.patterns) {
		var err error
		if dir.Recursive {
			err = w.addTree(dir.Path)
		} else {
			err = w.fsw.Add(dir.Path)
		}
		if err != nil {
			log.Warn("Not watching %s: %v", dir.Path, err)
			continue
		}
		if dir.Recursive {
			w.recursive = append(w.recursive, dir.Path)
		}
		added++
	}
	if added == 0 {
		return errors.New("no variables file directory could be watched")
	}

	go w.loop(ctx)
	return nil
}

// addTree watches dir and its subdirectories, skipping hidden ones and node_modules.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
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
			log.Warn("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && w.inRecursiveTree(event.Name) {
		// New directories under a recursive glob base may hold matching files later
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err == nil {
				log.Debug("Watching new directory %s", event.Name)
			}
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !variables.Matches(w.root, w.patterns, event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending[event.Name] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
	} else {
		w.timer.Reset(w.debounce)
	}
}

func (w *Watcher) inRecursiveTree(path string) bool {
	for _, dir := range w.recursive {
		if rel, err := filepath.Rel(dir, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// WatchList returns the directories currently watched.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = map[string]struct{}{}
	w.mu.Unlock()

	log.Info("Variables files changed on disk: %s", strings.Join(paths, ", "))
	w.onChange(paths)
}

// Close stops watching. Pending changes are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
