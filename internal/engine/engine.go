// Package engine wires the matcher, walker, scanner and scheduler into one
// search run.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/standardbeagle/lgrep/internal/classify"
	"github.com/standardbeagle/lgrep/internal/debug"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/matcher"
	"github.com/standardbeagle/lgrep/internal/scanner"
	"github.com/standardbeagle/lgrep/internal/scheduler"
	"github.com/standardbeagle/lgrep/internal/source"
	"github.com/standardbeagle/lgrep/internal/types"
	"github.com/standardbeagle/lgrep/internal/walker"
)

// Options is the fully resolved configuration of one search
type Options struct {
	Patterns     []string
	Fixed        bool
	IgnoreCase   bool
	WordBoundary bool
	LineBoundary bool
	Invert       bool

	Roots          []string
	Recursive      bool
	FollowSymlinks bool
	Include        []string
	Exclude        []string
	ExcludeDir     []string

	Mode     scanner.Mode
	Before   int
	After    int
	MaxCount int // 0 means unlimited
	Binary   classify.BinaryMode
	NullData bool

	Workers       int   // 0 means one per CPU
	MmapThreshold int64 // 0 means types.DefaultMmapThreshold

	Stdin io.Reader // read for the "-" root; nil means os.Stdin
}

// Specs converts the pattern list into matcher specs
func (o Options) Specs() []matcher.Spec {
	mode := matcher.ModeRegex
	if o.Fixed {
		mode = matcher.ModeFixed
	}
	specs := make([]matcher.Spec, len(o.Patterns))
	for i, p := range o.Patterns {
		specs[i] = matcher.Spec{
			Pattern:      p,
			Mode:         mode,
			IgnoreCase:   o.IgnoreCase,
			WordBoundary: o.WordBoundary,
			LineBoundary: o.LineBoundary,
			NullData:     o.NullData,
		}
	}
	return specs
}

// Engine runs searches for one resolved configuration
type Engine struct {
	opts    Options
	scanner *scanner.Scanner
	walk    walker.Options
}

// New compiles patterns and filters. Errors are fatal for the run.
func New(opts Options) (*Engine, error) {
	specs := opts.Specs()
	m, err := matcher.CompileAll(specs)
	if err != nil {
		return nil, err
	}
	debug.LogScan("compiled %s", matcher.Describe(specs))

	walkOpts := walker.Options{
		Recursive:      opts.Recursive,
		FollowSymlinks: opts.FollowSymlinks,
	}
	filters := []struct {
		field    string
		patterns []string
		dst      *classify.Predicate
	}{
		{"include", opts.Include, &walkOpts.Include},
		{"exclude", opts.Exclude, &walkOpts.Exclude},
		{"exclude-dir", opts.ExcludeDir, &walkOpts.ExcludeDir},
	}
	for _, f := range filters {
		g, err := classify.NewGlobFilter(f.patterns)
		if err != nil {
			return nil, lgerrors.NewConfigError(f.field, "", err)
		}
		*f.dst = g.Predicate()
	}

	sc := scanner.New(m, scanner.Options{
		Mode:     opts.Mode,
		Invert:   opts.Invert,
		Before:   opts.Before,
		After:    opts.After,
		MaxCount: opts.MaxCount,
		Binary:   opts.Binary,
		Source: source.Options{
			MmapThreshold: opts.MmapThreshold,
			NullData:      opts.NullData,
			Stdin:         opts.Stdin,
		},
	})

	return &Engine{opts: opts, scanner: sc, walk: walkOpts}, nil
}

// Options returns the configuration the engine was built with
func (e *Engine) Options() Options {
	return e.opts
}

// WalkOptions returns the compiled traversal filters, shared with watch mode
func (e *Engine) WalkOptions() walker.Options {
	return e.walk
}

// Run walks the roots and scans every target, emitting results to sink in
// traversal order.
func (e *Engine) Run(ctx context.Context, sink scheduler.Sink) (types.RunSummary, error) {
	targets, err := walker.Walk(ctx, e.opts.Roots, e.walk)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("walk: %w", err)
	}
	return scheduler.Run(ctx, targets, e.scanTarget, e.opts.Workers, sink)
}

// scanTarget turns walker conditions into results and scans everything else
func (e *Engine) scanTarget(ctx context.Context, target walker.Target) *types.ScanResult {
	if target.Err != nil {
		status := types.StatusReadError
		if lgerrors.IoKindOf(target.Err) == lgerrors.IoIsADirectory {
			status = types.StatusSkipped
		}
		return &types.ScanResult{Path: target.Path, Status: status, Err: target.Err}
	}
	return e.scanner.Scan(ctx, target.Path)
}
