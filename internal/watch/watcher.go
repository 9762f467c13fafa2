// Package watch re-runs a search whenever files under the searched roots
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/lgrep/internal/classify"
	"github.com/standardbeagle/lgrep/internal/debug"
	"github.com/standardbeagle/lgrep/internal/types"
)

// Options configures a Watcher. The predicates receive slash paths relative
// to the watched root, the same paths the walker filters on.
type Options struct {
	Debounce   time.Duration // 0 means types.DefaultDebounceMs
	Include    classify.Predicate
	Exclude    classify.Predicate
	ExcludeDir classify.Predicate
}

// OnChange is called with the sorted paths that changed in one debounced
// batch. Calls are serialized.
type OnChange func(ctx context.Context, changed []string)

// watchedDir is one directory registered with fsnotify
type watchedDir struct {
	rel       string // slash path relative to its root
	filesOnly bool   // watched only for explicitly named file roots
}

// Watcher monitors directories for file changes
type Watcher struct {
	watcher   *fsnotify.Watcher
	opts      Options
	debouncer *eventDebouncer

	mu      sync.Mutex
	dirs    map[string]watchedDir
	files   map[string]bool // file roots
	visited map[string]bool // resolved directories, guards against symlink cycles

	// Watch mode statistics
	statsMu         sync.Mutex
	eventsProcessed int64
	errorCount      int64
	batches         int64
}

// New creates a watcher
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = types.DefaultDebounceMs * time.Millisecond
	}
	return &Watcher{
		watcher:   fsw,
		opts:      opts,
		debouncer: newEventDebouncer(opts.Debounce),
		dirs:      make(map[string]watchedDir),
		files:     make(map[string]bool),
		visited:   make(map[string]bool),
	}, nil
}

// Run watches the directories under roots and calls onChange for every
// debounced batch of changes until ctx is cancelled. File roots are watched
// through their parent directory. The watcher cannot be reused after Run
// returns.
func (w *Watcher) Run(ctx context.Context, roots []string, onChange OnChange) error {
	defer w.watcher.Close()

	if err := w.addRoots(roots); err != nil {
		return err
	}
	debug.LogWatch("watching %d directories", w.Len())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processEvents(ctx)
	}()
	defer func() {
		w.debouncer.stop()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-w.debouncer.out:
			w.statsMu.Lock()
			w.batches++
			w.statsMu.Unlock()
			debug.LogWatch("batch of %d changes", len(changed))
			onChange(ctx, changed)
		}
	}
}

// Len returns the number of watched directories
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// addRoots registers directory roots first so that file roots inside them
// need no watch of their own
func (w *Watcher) addRoots(roots []string) error {
	var fileRoots []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		if !info.IsDir() {
			fileRoots = append(fileRoots, root)
			continue
		}
		w.addTree(root, "")
	}

	for _, root := range fileRoots {
		path := filepath.Clean(root)
		dir := filepath.Dir(path)

		w.mu.Lock()
		w.files[path] = true
		_, watched := w.dirs[dir]
		if !watched {
			w.dirs[dir] = watchedDir{filesOnly: true}
		}
		w.mu.Unlock()

		if !watched {
			if err := w.watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
	}
	return nil
}

// addTree recursively adds watches to all non-excluded directories
func (w *Watcher) addTree(root, rel string) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries, continue walking
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		sub := rel
		if p, rerr := filepath.Rel(root, path); rerr == nil && p != "." {
			sub = joinRel(rel, filepath.ToSlash(p))
			if w.opts.ExcludeDir != nil && w.opts.ExcludeDir(sub) {
				return filepath.SkipDir
			}
		}

		if !w.markVisited(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			debug.LogWatch("failed to add watch for %s: %v", path, err)
			return filepath.SkipDir
		}

		w.mu.Lock()
		w.dirs[filepath.Clean(path)] = watchedDir{rel: sub}
		w.mu.Unlock()
		return nil
	})
}

// markVisited reports whether dir has not been seen before under any name
func (w *Watcher) markVisited(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visited[resolved] {
		return false
	}
	w.visited[resolved] = true
	return true
}

// processEvents processes file system events from fsnotify
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
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
			w.statsMu.Lock()
			w.errorCount++
			w.statsMu.Unlock()
			debug.LogWatch("watcher error: %v", err)
		}
	}
}

// handleEvent filters one event and queues it with the debouncer
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(event.Name)

	w.mu.Lock()
	parent, ok := w.dirs[filepath.Dir(path)]
	isFileRoot := w.files[path]
	_, wasDir := w.dirs[path]
	if wasDir && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		delete(w.dirs, path)
	}
	w.mu.Unlock()

	if !ok {
		return
	}
	if parent.filesOnly {
		if isFileRoot {
			w.queue(path)
		}
		return
	}

	rel := joinRel(parent.rel, filepath.Base(path))

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.opts.ExcludeDir != nil && w.opts.ExcludeDir(rel) {
				return
			}
			// Files may already exist in the new directory
			w.addTree(path, rel)
			w.queue(path)
			return
		}
	}

	if wasDir || isFileRoot || classify.ShouldScan(rel, w.opts.Include, w.opts.Exclude) {
		w.queue(path)
	} else {
		debug.LogWatch("ignoring %s", path)
	}
}

func (w *Watcher) queue(path string) {
	w.statsMu.Lock()
	w.eventsProcessed++
	w.statsMu.Unlock()
	w.debouncer.addEvent(path)
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}

// Stats returns current watch mode statistics
func (w *Watcher) Stats() Stats {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	return Stats{
		EventsProcessed: w.eventsProcessed,
		ErrorCount:      w.errorCount,
		Batches:         w.batches,
	}
}

// Stats contains statistics about file watching operations
type Stats struct {
	EventsProcessed int64
	ErrorCount      int64
	Batches         int64
}
