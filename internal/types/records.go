package types

import "fmt"

// RecordKind tags an OutputRecord variant
type RecordKind uint8

const (
	RecordMatch       RecordKind = iota // a selected line
	RecordContext                       // a non-selected line inside a before/after window
	RecordSeparator                     // break between non-adjacent context groups
	RecordSummary                       // per-file count (count mode)
	RecordFileMatched                   // per-file listing (files-with / files-without match)
)

// String returns a short name for logs and test failures
func (k RecordKind) String() string {
	switch k {
	case RecordMatch:
		return "match"
	case RecordContext:
		return "context"
	case RecordSeparator:
		return "separator"
	case RecordSummary:
		return "summary"
	case RecordFileMatched:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// OutputRecord is a single unit of output for one file.
// Records of one file are strictly ordered by line number.
type OutputRecord struct {
	Kind  RecordKind
	Path  string
	Line  LineRecord // zero for Separator, Summary and FileMatched
	Spans []Span     // Match only; empty under inversion
	Count int        // Summary only
}

// ScanStatus is the terminal state of one file scan
type ScanStatus uint8

const (
	StatusCompleted     ScanStatus = iota // the whole file was read
	StatusEarlyExit                       // the answer was known before EOF
	StatusReadError                       // open or read failed; see ScanResult.Err
	StatusBinarySkipped                   // binary content detected, not scanned
	StatusSkipped                         // target condition (e.g. is a directory); see ScanResult.Err
	StatusCancelled                       // abandoned after a global stop; never emitted
)

// String returns a short name for logs and test failures
func (s ScanStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusEarlyExit:
		return "early-exit"
	case StatusReadError:
		return "read-error"
	case StatusBinarySkipped:
		return "binary-skipped"
	case StatusSkipped:
		return "skipped"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ScanResult is the complete, immutable outcome of scanning one path.
type ScanResult struct {
	Path    string
	Records []OutputRecord
	Status  ScanStatus
	Err     error // set for StatusReadError and StatusSkipped

	// Count is the number of selected lines (or -o spans) that were accepted.
	Count int
	// Matched reports whether at least one line was selected.
	Matched bool
	// StopAll asks the scheduler to abandon every other scan (quiet mode hit).
	StopAll bool
}

// Failed reports whether the result carries an error that affects exit status.
func (r *ScanResult) Failed() bool {
	return r.Err != nil
}

// RunSummary aggregates counters for one invocation.
type RunSummary struct {
	Files         int64 // targets whose result was emitted
	FilesMatched  int64 // files with at least one selected line
	Matches       int64 // total selected lines across files
	Errors        int64 // targets that failed (I/O, is-a-directory)
	BinarySkipped int64
}

// AnyMatch reports whether any line was selected during the run.
func (s RunSummary) AnyMatch() bool {
	return s.FilesMatched > 0
}
