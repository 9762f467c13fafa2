package matcher

import (
	"errors"
	"regexp"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/lgrep/internal/types"
)

// regexCache shares compiled expressions across runs (watch mode recompiles
// the same patterns on every change batch)
var regexCache sync.Map // map[string]*regexp.Regexp

func compileCached(expr string) (*regexp.Regexp, error) {
	if re, ok := regexCache.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	actual, _ := regexCache.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

// CompileAll builds an "any pattern matches" matcher from several specs
// (repeated -e flags and the lines of -f files). Duplicate specs are
// compiled once. The first invalid pattern aborts compilation.
func CompileAll(specs []Spec) (Matcher, error) {
	unique := Dedupe(specs)
	if len(unique) == 0 {
		return nil, errors.New("no patterns given")
	}
	if len(unique) == 1 {
		return Compile(unique[0])
	}

	set := &setMatcher{matchers: make([]Matcher, 0, len(unique))}
	for _, spec := range unique {
		m, err := Compile(spec)
		if err != nil {
			return nil, err
		}
		set.matchers = append(set.matchers, m)
	}
	return set, nil
}

// Dedupe drops repeated specs, keeping first occurrences in order
func Dedupe(specs []Spec) []Spec {
	seen := make(map[uint64]struct{}, len(specs))
	out := make([]Spec, 0, len(specs))
	for _, spec := range specs {
		h := xxhash.Sum64String(spec.key())
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, spec)
	}
	return out
}

// setMatcher is the disjunction of several matchers
type setMatcher struct {
	matchers []Matcher
}

func (s *setMatcher) IsMatch(line []byte) bool {
	for _, m := range s.matchers {
		if m.IsMatch(line) {
			return true
		}
	}
	return false
}

func (s *setMatcher) FindIn(line []byte) []types.Span {
	var all []types.Span
	for _, m := range s.matchers {
		all = append(all, m.FindIn(line)...)
	}
	return mergeSpans(all)
}

// mergeSpans sorts spans and coalesces overlapping ones so the result is
// ordered and non-overlapping like a single matcher's output
func mergeSpans(spans []types.Span) []types.Span {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})

	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.Start < last.End || sp == *last {
			if sp.End > last.End {
				last.End = sp.End
			}
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}
