// Package scanner drives the search of a single file: binary check, line
// iteration, matching, inversion and output accumulation.
package scanner

import (
	"context"

	"github.com/standardbeagle/lgrep/internal/accumulator"
	"github.com/standardbeagle/lgrep/internal/classify"
	"github.com/standardbeagle/lgrep/internal/debug"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/matcher"
	"github.com/standardbeagle/lgrep/internal/source"
	"github.com/standardbeagle/lgrep/internal/types"
)

// cancelCheckInterval is how many lines are processed between polls of the
// context.
// Rationale: ctx.Err takes a lock; polling every line costs more than the
// match itself on short lines, while 1024 lines keeps abandonment prompt.
const cancelCheckInterval = 1024

// Mode selects what a scan produces
type Mode uint8

const (
	ModeLines             Mode = iota // matching lines with optional context
	ModeQuiet                         // only whether anything matched (-q)
	ModeCount                         // per-file count of selected lines (-c)
	ModeFilesWithMatches              // path when a line is selected (-l)
	ModeFilesWithoutMatch             // path when no line is selected (-L)
	ModeOnlyMatching                  // one record per matched span (-o)
)

// String returns a short name for debug output
func (m Mode) String() string {
	switch m {
	case ModeQuiet:
		return "quiet"
	case ModeCount:
		return "count"
	case ModeFilesWithMatches:
		return "files-with-matches"
	case ModeFilesWithoutMatch:
		return "files-without-match"
	case ModeOnlyMatching:
		return "only-matching"
	default:
		return "lines"
	}
}

// PrintsLines reports whether the mode prints line content
func (m Mode) PrintsLines() bool {
	return m == ModeLines || m == ModeOnlyMatching
}

// Options configures a Scanner
type Options struct {
	Mode     Mode
	Invert   bool
	Before   int
	After    int
	MaxCount int // 0 means unlimited
	Binary   classify.BinaryMode
	Source   source.Options
}

// Scanner searches files with one compiled matcher. It holds no per-file
// state and is safe for concurrent use.
type Scanner struct {
	matcher matcher.Matcher
	opts    Options
}

// New creates a scanner
func New(m matcher.Matcher, opts Options) *Scanner {
	if opts.Mode == ModeOnlyMatching {
		// Context lines are never printed with -o
		opts.Before, opts.After = 0, 0
	}
	return &Scanner{matcher: m, opts: opts}
}

// Options returns the effective options
func (s *Scanner) Options() Options {
	return s.opts
}

// Scan searches one file. Per-file failures are reported in the result,
// never returned, so one bad file cannot abort a run.
func (s *Scanner) Scan(ctx context.Context, path string) *types.ScanResult {
	result := &types.ScanResult{Path: path}

	if ctx.Err() != nil {
		result.Status = types.StatusCancelled
		return result
	}

	src, err := source.Open(path, s.opts.Source)
	if err != nil {
		return failed(result, err)
	}
	defer src.Close()

	debug.LogScan("%s: %d bytes mapped=%t mode=%s", path, src.Size(), src.Mapped(), s.opts.Mode)

	// With -z, NUL is the line separator rather than a binary marker
	if !s.opts.Source.NullData && classify.IsBinary(src.Bytes(), s.opts.Binary) {
		result.Status = types.StatusBinarySkipped
		if s.opts.Binary == classify.BinaryAuto {
			result.Matched = s.anyMatch(ctx, src)
		}
		return result
	}

	switch s.opts.Mode {
	case ModeLines, ModeOnlyMatching:
		s.scanRecords(ctx, src, result)
	default:
		s.scanSummary(ctx, src, result)
	}

	if result.Status != types.StatusCancelled {
		result.Records = copyToArena(result.Records)
	}
	return result
}

// failed converts an open failure into a terminal result
func failed(result *types.ScanResult, err error) *types.ScanResult {
	result.Err = err
	if lgerrors.IoKindOf(err) == lgerrors.IoIsADirectory {
		result.Status = types.StatusSkipped
	} else {
		result.Status = types.StatusReadError
	}
	return result
}

// outcome evaluates one line, applying inversion. Inverted matches never
// carry spans.
func (s *Scanner) outcome(line types.LineRecord, withSpans bool) types.MatchOutcome {
	if withSpans && !s.opts.Invert {
		spans := s.matcher.FindIn(line.Content)
		return types.MatchOutcome{Line: line, Matched: len(spans) > 0, Spans: spans}
	}
	hit := s.matcher.IsMatch(line.Content)
	return types.MatchOutcome{Line: line, Matched: hit != s.opts.Invert}
}

// scanRecords runs the accumulator for line and only-matching output
func (s *Scanner) scanRecords(ctx context.Context, src source.Source, result *types.ScanResult) {
	acc := accumulator.New(result.Path, accumulator.Options{
		Before:   s.opts.Before,
		After:    s.opts.After,
		MaxCount: s.opts.MaxCount,
	})

	result.Status = types.StatusCompleted
	lines := src.Lines()
	for n := 1; ; n++ {
		if n%cancelCheckInterval == 0 && ctx.Err() != nil {
			result.Status = types.StatusCancelled
			result.Records = nil
			return
		}
		line, ok := lines.Next()
		if !ok {
			break
		}
		if acc.Feed(s.outcome(line, true)) {
			result.Status = types.StatusEarlyExit
			break
		}
	}

	result.Count = acc.Matches()
	result.Matched = result.Count > 0
	result.Records = acc.Records()
	if s.opts.Mode == ModeOnlyMatching {
		result.Records = splitSpans(result.Records)
	}
}

// anyMatch reports whether any line is selected, without recording it
func (s *Scanner) anyMatch(ctx context.Context, src source.Source) bool {
	lines := src.Lines()
	for n := 1; ; n++ {
		if n%cancelCheckInterval == 0 && ctx.Err() != nil {
			return false
		}
		line, ok := lines.Next()
		if !ok {
			return false
		}
		if s.outcome(line, false).Matched {
			return true
		}
	}
}

// scanSummary handles the modes that never retain line content
func (s *Scanner) scanSummary(ctx context.Context, src source.Source, result *types.ScanResult) {
	result.Status = types.StatusCompleted
	lines := src.Lines()
	for n := 1; ; n++ {
		if n%cancelCheckInterval == 0 && ctx.Err() != nil {
			result.Status = types.StatusCancelled
			return
		}
		line, ok := lines.Next()
		if !ok {
			break
		}
		if !s.outcome(line, false).Matched {
			continue
		}

		result.Count++
		result.Matched = true

		if s.stopAfterHit(result) {
			result.Status = types.StatusEarlyExit
			break
		}
	}

	switch s.opts.Mode {
	case ModeCount:
		result.Records = []types.OutputRecord{{Kind: types.RecordSummary, Path: result.Path, Count: result.Count}}
	case ModeFilesWithMatches:
		if result.Matched {
			result.Records = []types.OutputRecord{{Kind: types.RecordFileMatched, Path: result.Path}}
		}
	case ModeFilesWithoutMatch:
		if !result.Matched {
			result.Records = []types.OutputRecord{{Kind: types.RecordFileMatched, Path: result.Path}}
		}
	}
}

// stopAfterHit reports whether the file's answer is known after a selected line
func (s *Scanner) stopAfterHit(result *types.ScanResult) bool {
	switch s.opts.Mode {
	case ModeQuiet:
		result.StopAll = true
		return true
	case ModeFilesWithMatches, ModeFilesWithoutMatch:
		return true
	case ModeCount:
		return s.opts.MaxCount > 0 && result.Count >= s.opts.MaxCount
	}
	return false
}

// splitSpans expands each match record into one record per non-empty span
func splitSpans(records []types.OutputRecord) []types.OutputRecord {
	out := make([]types.OutputRecord, 0, len(records))
	for _, r := range records {
		if r.Kind != types.RecordMatch {
			continue
		}
		for _, sp := range r.Spans {
			if sp.Len() == 0 {
				continue
			}
			rec := r
			rec.Spans = []types.Span{sp}
			out = append(out, rec)
		}
	}
	return out
}

// copyToArena moves record content out of the source into one allocation
// so the records stay valid after the source is closed
func copyToArena(records []types.OutputRecord) []types.OutputRecord {
	total := 0
	for i, r := range records {
		if i > 0 && r.Line.Number == records[i-1].Line.Number {
			continue
		}
		total += len(r.Line.Content)
	}
	if total == 0 {
		for i := range records {
			if records[i].Line.Content != nil {
				records[i].Line.Content = []byte{}
			}
		}
		return records
	}

	arena := make([]byte, 0, total)
	for i := range records {
		r := &records[i]
		if r.Line.Content == nil {
			continue
		}
		if i > 0 && r.Line.Number == records[i-1].Line.Number && records[i-1].Line.Content != nil {
			r.Line.Content = records[i-1].Line.Content
			continue
		}
		start := len(arena)
		arena = append(arena, r.Line.Content...)
		r.Line.Content = arena[start:len(arena):len(arena)]
	}
	return records
}
