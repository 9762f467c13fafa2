package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/standardbeagle/lgrep/internal/debug"
	"github.com/standardbeagle/lgrep/internal/display"
	"github.com/standardbeagle/lgrep/internal/engine"
	"github.com/standardbeagle/lgrep/internal/scanner"
	"github.com/standardbeagle/lgrep/internal/source"
	"github.com/standardbeagle/lgrep/internal/types"
	"github.com/standardbeagle/lgrep/internal/watch"
	"github.com/standardbeagle/lgrep/pkg/pathutil"
)

// execute runs the search once, or repeatedly under --watch, and returns
// the exit status of the last run
func execute(ctx context.Context, inv *invocation, stdout, stderr io.Writer) int {
	if inv.selectsNothing {
		return exitNoMatch
	}

	e, err := engine.New(inv.engine)
	if err != nil {
		fmt.Fprintf(stderr, "lgrep: %v\n", err)
		return exitTrouble
	}

	code := searchOnce(ctx, e, inv, stdout, stderr)
	if !inv.watch {
		return code
	}
	return watchAndSearch(ctx, e, inv, code, stdout, stderr)
}

// listingSink counts -L listings, which decide that mode's exit status
type listingSink struct {
	*display.Printer
	listed atomic.Int64
}

func (s *listingSink) Emit(r *types.ScanResult) error {
	for _, rec := range r.Records {
		if rec.Kind == types.RecordFileMatched {
			s.listed.Add(1)
		}
	}
	return s.Printer.Emit(r)
}

func searchOnce(ctx context.Context, e *engine.Engine, inv *invocation, stdout, stderr io.Writer) int {
	sink := &listingSink{Printer: display.NewPrinter(stdout, stderr, inv.display)}

	summary, err := e.Run(ctx, sink)
	if err != nil {
		// An interrupted run prints nothing more
		if ctx.Err() == nil {
			fmt.Fprintf(stderr, "lgrep: %v\n", err)
		}
		return exitTrouble
	}
	debug.LogSchedule("files=%d matched=%d matches=%d errors=%d binary=%d",
		summary.Files, summary.FilesMatched, summary.Matches, summary.Errors, summary.BinarySkipped)

	return exitStatus(summary, inv.engine.Mode, sink.listed.Load() > 0)
}

// exitStatus follows grep: an error wins unless -q already found a match.
// With -L success means some file was listed.
func exitStatus(summary types.RunSummary, mode scanner.Mode, listed bool) int {
	success := summary.AnyMatch()
	if mode == scanner.ModeFilesWithoutMatch {
		success = listed
	}
	switch {
	case summary.Errors > 0 && !(mode == scanner.ModeQuiet && success):
		return exitTrouble
	case success:
		return exitMatch
	}
	return exitNoMatch
}

// watchAndSearch re-runs the search after every debounced batch of changes
// until ctx is cancelled
func watchAndSearch(ctx context.Context, e *engine.Engine, inv *invocation, code int, stdout, stderr io.Writer) int {
	for _, root := range inv.engine.Roots {
		if root == source.StdinPath {
			fmt.Fprintln(stderr, "lgrep: --watch cannot read standard input")
			return exitTrouble
		}
	}

	walk := e.WalkOptions()
	w, err := watch.New(watch.Options{
		Debounce:   inv.debounce,
		Include:    walk.Include,
		Exclude:    walk.Exclude,
		ExcludeDir: walk.ExcludeDir,
	})
	if err != nil {
		fmt.Fprintf(stderr, "lgrep: %v\n", err)
		return exitTrouble
	}

	cwd, _ := os.Getwd()
	err = w.Run(ctx, inv.engine.Roots, func(ctx context.Context, changed []string) {
		if !inv.display.NoMessages {
			fmt.Fprintf(stderr, "lgrep: changed: %s\n", strings.Join(pathutil.ToRelativePaths(changed, cwd), ", "))
		}
		code = searchOnce(ctx, e, inv, stdout, stderr)
	})
	if err != nil {
		fmt.Fprintf(stderr, "lgrep: %v\n", err)
		return exitTrouble
	}
	return code
}
