package types

// Common system-wide constants
const (
	// Memory mapping threshold
	DefaultMmapThreshold = 1024 * 1024 // 1MiB - files at or above this size are memory mapped
	// Rationale: below 1MiB a single read into an owned buffer is
	// cheaper than the mmap/munmap syscalls and page faults.

	// Binary detection sample size
	BinarySampleBytes = 8 * 1024 // 8KiB prefix inspected for NUL bytes
	// Rationale: large enough to catch headers of common binary
	// formats, small enough to never dominate the cost of a scan.

	// Line separator defaults
	DefaultLineSeparator = '\n'
	NullLineSeparator    = 0

	// DefaultDebounceMs is the watch-mode debounce for file change bursts
	DefaultDebounceMs = 300
)

// Span is a half-open [Start, End) byte range within a single line.
type Span struct {
	Start int
	End   int
}

// Len returns the span width in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// LineRecord is one line produced by a line source.
// Content borrows from the source's backing storage and must not be used
// after the source is closed. Content never includes the line separator.
type LineRecord struct {
	Offset     int64 // byte offset of the line start within the file
	Number     int   // 1-based line number
	Content    []byte
	Terminated bool // false only for a final line without a separator
}

// MatchOutcome is the per-line verdict after inversion has been applied.
// Inverted matches never carry spans.
type MatchOutcome struct {
	Line    LineRecord
	Matched bool
	Spans   []Span
}
