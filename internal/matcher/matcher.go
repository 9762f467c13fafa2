// Package matcher compiles pattern specifications into line matchers.
//
// A Matcher reports the byte spans of a pattern inside one line. Spans always
// index the original line bytes, so case folding is done on a scratch copy and
// never on the caller's data. Inversion is not a matcher concern: the file
// scanner treats "no spans" as the selected condition when -v is in effect.
package matcher

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"

	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/types"
)

// Mode selects how the pattern text is interpreted
type Mode uint8

const (
	ModeRegex Mode = iota // Go RE2 syntax
	ModeFixed             // literal substring
)

// String returns the flag-style name of the mode
func (m Mode) String() string {
	if m == ModeFixed {
		return "fixed"
	}
	return "regex"
}

// Spec is the immutable description of one pattern
type Spec struct {
	Pattern      string
	Mode         Mode
	IgnoreCase   bool
	WordBoundary bool // -w
	LineBoundary bool // -x
	NullData     bool // -z: lines end in NUL, so "\n" is an ordinary byte
}

// key is the canonical text used to fingerprint a spec
func (s Spec) key() string {
	return fmt.Sprintf("%d|%t|%t|%t|%t|%s", s.Mode, s.IgnoreCase, s.WordBoundary, s.LineBoundary, s.NullData, s.Pattern)
}

// Matcher finds pattern occurrences within a single line.
// Implementations are safe for concurrent use by multiple scanners.
type Matcher interface {
	// FindIn returns the ordered, non-overlapping spans matched in line.
	FindIn(line []byte) []types.Span
	// IsMatch reports whether FindIn would return at least one span.
	IsMatch(line []byte) bool
}

// Compile builds a matcher for one spec
func Compile(spec Spec) (Matcher, error) {
	if spec.Mode == ModeFixed {
		return newFixedMatcher(spec), nil
	}
	return newRegexMatcher(spec)
}

// isWordChar matches the grep -w definition of a word constituent
func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b == '_'
}

// wordBounded reports whether [start,end) is flanked by non-word bytes or line edges
func wordBounded(line []byte, start, end int) bool {
	if start > 0 && isWordChar(line[start-1]) {
		return false
	}
	if end < len(line) && isWordChar(line[end]) {
		return false
	}
	return true
}

// trimTerminator drops a single trailing "\n" (and a "\r" before it).
// NUL-separated records keep every byte.
func trimTerminator(line []byte, nullData bool) []byte {
	if nullData {
		return line
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

// fixedMatcher performs literal substring search
type fixedMatcher struct {
	needle []byte // lowered when ignoreCase
	spec   Spec
}

func newFixedMatcher(spec Spec) *fixedMatcher {
	needle := []byte(spec.Pattern)
	if spec.IgnoreCase {
		needle = asciiLower(nil, needle)
	}
	return &fixedMatcher{needle: needle, spec: spec}
}

func (m *fixedMatcher) FindIn(line []byte) []types.Span {
	return m.find(line, false)
}

func (m *fixedMatcher) IsMatch(line []byte) bool {
	return len(m.find(line, true)) > 0
}

func (m *fixedMatcher) find(line []byte, first bool) []types.Span {
	line = trimTerminator(line, m.spec.NullData)

	hay := line
	if m.spec.IgnoreCase {
		buf := getScratch(len(line))
		defer putScratch(buf)
		hay = asciiLower((*buf)[:0], line)
	}

	if m.spec.LineBoundary {
		if bytes.Equal(hay, m.needle) {
			return []types.Span{{Start: 0, End: len(line)}}
		}
		return nil
	}

	if len(m.needle) == 0 {
		if m.spec.WordBoundary && !wordBounded(line, 0, 0) {
			return nil
		}
		return []types.Span{{Start: 0, End: 0}}
	}

	var spans []types.Span
	offset := 0
	for offset <= len(hay)-len(m.needle) {
		idx := bytes.Index(hay[offset:], m.needle)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(m.needle)

		if m.spec.WordBoundary && !wordBounded(line, start, end) {
			offset = start + 1
			continue
		}

		spans = append(spans, types.Span{Start: start, End: end})
		if first {
			break
		}
		offset = end
	}
	return spans
}

// regexMatcher defers to Go's RE2 engine. For -w the pattern is also
// compiled with explicit non-word flanks so boundaries and anchors are always
// evaluated against the whole line.
type regexMatcher struct {
	re   *regexp.Regexp
	spec Spec

	wordFirst *regexp.Regexp // (^|\W)(expr)(\W|$), searched from the line start
	wordNext  *regexp.Regexp // \W(expr)(\W|$), searched from the byte before the last match end
}

func newRegexMatcher(spec Spec) (*regexMatcher, error) {
	// Validate the bare pattern: wrapping could balance stray parentheses
	if _, err := compileCached(spec.Pattern); err != nil {
		return nil, lgerrors.NewPatternError(spec.Pattern, err)
	}

	expr := spec.Pattern
	if spec.LineBoundary {
		expr = `^(?:` + expr + `)$`
	}
	flags := ""
	if spec.IgnoreCase {
		flags = `(?i)`
	}

	m := &regexMatcher{spec: spec}
	var err error
	if m.re, err = compileCached(flags + expr); err != nil {
		return nil, lgerrors.NewPatternError(spec.Pattern, err)
	}
	if spec.WordBoundary {
		if m.wordFirst, err = compileCached(flags + `(?:^|\W)(` + expr + `)(?:\W|$)`); err != nil {
			return nil, lgerrors.NewPatternError(spec.Pattern, err)
		}
		if m.wordNext, err = compileCached(flags + `\W(` + expr + `)(?:\W|$)`); err != nil {
			return nil, lgerrors.NewPatternError(spec.Pattern, err)
		}
	}
	return m, nil
}

func (m *regexMatcher) FindIn(line []byte) []types.Span {
	line = trimTerminator(line, m.spec.NullData)
	if !m.spec.WordBoundary {
		locs := m.re.FindAllIndex(line, -1)
		if len(locs) == 0 {
			return nil
		}
		spans := make([]types.Span, len(locs))
		for i, loc := range locs {
			spans[i] = types.Span{Start: loc[0], End: loc[1]}
		}
		return spans
	}
	return m.findWords(line, false)
}

func (m *regexMatcher) IsMatch(line []byte) bool {
	line = trimTerminator(line, m.spec.NullData)
	if !m.spec.WordBoundary {
		return m.re.Match(line)
	}
	return len(m.findWords(line, true)) > 0
}

// findWords returns word-bounded matches left to right. Later searches start
// one byte before pos and must consume that byte as the leading flank, so a
// "^" or "\A" inside the pattern can never match at the slice start.
func (m *regexMatcher) findWords(line []byte, first bool) []types.Span {
	var spans []types.Span
	pos := 0
	for pos <= len(line) {
		var loc []int
		base := 0
		if pos == 0 {
			loc = m.wordFirst.FindSubmatchIndex(line)
		} else {
			base = pos - 1
			loc = m.wordNext.FindSubmatchIndex(line[base:])
		}
		if loc == nil {
			break
		}
		start, end := base+loc[2], base+loc[3]

		spans = append(spans, types.Span{Start: start, End: end})
		if first {
			break
		}
		if end == start {
			end++
		}
		pos = end
	}
	return spans
}

// asciiLower appends the ASCII-lowered form of src to dst. Non-ASCII bytes are
// copied unchanged so byte offsets stay aligned with src.
func asciiLower(dst, src []byte) []byte {
	for _, b := range src {
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		dst = append(dst, b)
	}
	return dst
}

var scratchPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

func getScratch(n int) *[]byte {
	buf := scratchPool.Get().(*[]byte)
	if cap(*buf) < n {
		*buf = make([]byte, 0, n)
	}
	return buf
}

func putScratch(buf *[]byte) {
	// Keep pathological long lines from pinning memory in the pool
	if cap(*buf) > 64*1024 {
		return
	}
	*buf = (*buf)[:0]
	scratchPool.Put(buf)
}

// Describe renders a spec for debug logs
func Describe(specs []Spec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = fmt.Sprintf("%s:%q", s.Mode, s.Pattern)
	}
	return strings.Join(parts, ", ")
}
