// Package accumulator turns a stream of per-line match outcomes into the
// ordered output records of one file, applying before/after context,
// group separators and the max-count limit.
package accumulator

import (
	"github.com/standardbeagle/lgrep/internal/types"
)

// State is the accumulator's position relative to the last selected line
type State uint8

const (
	// Idle: no pending after-context; unselected lines go to the ring
	Idle State = iota
	// InContext: emitting trailing context after a match
	InContext
	// InMatch: the previous line was a selected line
	InMatch
)

// String returns a short name for test failures
func (s State) String() string {
	switch s {
	case InContext:
		return "in-context"
	case InMatch:
		return "in-match"
	default:
		return "idle"
	}
}

// Options configures one accumulator
type Options struct {
	Before   int // lines of leading context (-B)
	After    int // lines of trailing context (-A)
	MaxCount int // stop after this many selected lines; 0 means unlimited
}

// Accumulator collects the records of a single file. It is not safe for
// concurrent use; each scan owns one.
type Accumulator struct {
	path string
	opts Options

	state     State
	ring      ring
	afterLeft int

	lastEmitted int // line number of the last emitted line, 0 when none
	emittedAny  bool

	matches    int
	maxReached bool
	done       bool

	records []types.OutputRecord
}

// New creates an accumulator for path
func New(path string, opts Options) *Accumulator {
	if opts.Before < 0 {
		opts.Before = 0
	}
	if opts.After < 0 {
		opts.After = 0
	}
	return &Accumulator{
		path: path,
		opts: opts,
		ring: newRing(opts.Before),
	}
}

// State returns the current state
func (a *Accumulator) State() State {
	return a.state
}

// Matches returns the number of selected lines accepted so far
func (a *Accumulator) Matches() int {
	return a.matches
}

// Done reports whether no further input will be accepted
func (a *Accumulator) Done() bool {
	return a.done
}

// Feed consumes the outcome for the next line and reports whether the
// accumulator has finished (max-count reached and trailing context flushed).
// Outcomes must arrive in line order.
func (a *Accumulator) Feed(o types.MatchOutcome) bool {
	if a.done {
		return true
	}

	if o.Matched && !a.maxReached {
		a.flushRing()
		a.emit(types.RecordMatch, o.Line, o.Spans)
		a.matches++
		a.state = InMatch
		a.afterLeft = a.opts.After

		if a.opts.MaxCount > 0 && a.matches >= a.opts.MaxCount {
			a.maxReached = true
			if a.afterLeft == 0 {
				a.finish()
			}
		}
		return a.done
	}

	// Unselected line, or a selected line past max-count
	if a.afterLeft > 0 {
		a.emit(types.RecordContext, o.Line, nil)
		a.afterLeft--
		a.state = InContext
		if a.afterLeft == 0 && a.maxReached {
			a.finish()
		}
		return a.done
	}

	a.state = Idle
	a.ring.push(o.Line)
	return false
}

// Records returns the records emitted so far. The slice is owned by the
// accumulator until the scan completes.
func (a *Accumulator) Records() []types.OutputRecord {
	return a.records
}

func (a *Accumulator) finish() {
	a.done = true
	a.ring.reset()
}

func (a *Accumulator) contextEnabled() bool {
	return a.opts.Before > 0 || a.opts.After > 0
}

// flushRing emits buffered leading context, oldest first
func (a *Accumulator) flushRing() {
	a.ring.drain(func(line types.LineRecord) {
		a.emit(types.RecordContext, line, nil)
	})
}

func (a *Accumulator) emit(kind types.RecordKind, line types.LineRecord, spans []types.Span) {
	if a.contextEnabled() && a.emittedAny && line.Number != a.lastEmitted+1 {
		a.records = append(a.records, types.OutputRecord{Kind: types.RecordSeparator, Path: a.path})
	}
	a.records = append(a.records, types.OutputRecord{
		Kind:  kind,
		Path:  a.path,
		Line:  line,
		Spans: spans,
	})
	a.lastEmitted = line.Number
	a.emittedAny = true
}
