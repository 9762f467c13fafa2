// Package walker expands command-line roots into the ordered list of files
// to scan. Order is deterministic: roots in argument order, directory
// entries sorted by name.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/lgrep/internal/classify"
	"github.com/standardbeagle/lgrep/internal/debug"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/source"
)

// Target is one path handed to the scheduler
type Target struct {
	Path string
	// Err is a condition known before scanning (e.g. is a directory)
	Err error
}

// Options controls traversal
type Options struct {
	Recursive      bool
	FollowSymlinks bool // follow symlinks found during recursion (-R)
	Include        classify.Predicate
	Exclude        classify.Predicate
	ExcludeDir     classify.Predicate
}

// fileID identifies a directory for cycle detection
type fileID struct {
	dev uint64
	ino uint64
}

type walker struct {
	opts    Options
	visited map[fileID]struct{}
	targets []Target
}

// Walk expands roots into targets. Only context cancellation is returned
// as an error; per-path problems are carried by the targets.
func Walk(ctx context.Context, roots []string, opts Options) ([]Target, error) {
	w := &walker{
		opts:    opts,
		visited: make(map[fileID]struct{}),
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return w.targets, err
		}
		if err := w.walkRoot(ctx, root); err != nil {
			return w.targets, err
		}
	}
	debug.LogWalk("%d roots expanded to %d targets", len(roots), len(w.targets))
	return w.targets, nil
}

func (w *walker) walkRoot(ctx context.Context, root string) error {
	if root == source.StdinPath {
		w.add(root, nil)
		return nil
	}

	// Roots named on the command line are always resolved
	info, err := os.Stat(root)
	if err != nil {
		// Reported by the scan so diagnostics keep traversal order
		w.add(root, nil)
		return nil
	}

	if !info.IsDir() {
		if classify.ShouldScan(root, w.opts.Include, w.opts.Exclude) {
			w.add(root, nil)
		}
		return nil
	}

	if !w.opts.Recursive {
		w.add(root, lgerrors.NewIsADirectoryError(root))
		return nil
	}

	w.markVisited(root, info)
	return w.walkDir(ctx, root, "")
}

// walkDir descends into dir; rel is dir's slash path relative to its root
func (w *walker) walkDir(ctx context.Context, dir, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		debug.LogWalk("cannot read %s: %v", dir, err)
		w.add(dir, lgerrors.NewFileError("read", dir, err))
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		path := joinPath(dir, name)
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}

		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				// Dangling link: let the scan report it
				if classify.ShouldScan(relPath, w.opts.Include, w.opts.Exclude) {
					w.add(path, nil)
				}
				continue
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if w.opts.ExcludeDir != nil && w.opts.ExcludeDir(relPath) {
				debug.LogWalk("excluded directory %s", path)
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				w.add(path, lgerrors.NewFileError("stat", path, err))
				continue
			}
			if !w.markVisited(path, info) {
				debug.LogWalk("cycle detected, skipping %s", path)
				continue
			}
			if err := w.walkDir(ctx, path, relPath); err != nil {
				return err
			}

		case mode.IsRegular():
			if classify.ShouldScan(relPath, w.opts.Include, w.opts.Exclude) {
				w.add(path, nil)
			}

		default:
			// Devices, sockets and FIFOs are skipped when recursing
		}
	}
	return nil
}

func (w *walker) add(path string, err error) {
	w.targets = append(w.targets, Target{Path: path, Err: err})
}

// markVisited records a directory and reports whether it was new
func (w *walker) markVisited(path string, info os.FileInfo) bool {
	id, ok := identity(path, info)
	if !ok {
		return true
	}
	if _, seen := w.visited[id]; seen {
		return false
	}
	w.visited[id] = struct{}{}
	return true
}

// joinPath appends name to dir without cleaning, so "./src" stays "./src/x"
// like grep prints it
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
