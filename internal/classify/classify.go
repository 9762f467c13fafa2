// Package classify decides which paths are scanned and whether their
// content is treated as text.
package classify

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Predicate reports whether a path is selected. A nil Predicate is
// "not configured".
type Predicate func(path string) bool

// ShouldScan applies include and exclude predicates to a file path.
// Exclude takes precedence; a nil include admits everything.
func ShouldScan(path string, include, exclude Predicate) bool {
	if exclude != nil && exclude(path) {
		return false
	}
	if include != nil && !include(path) {
		return false
	}
	return true
}

// GlobFilter matches paths against doublestar patterns
type GlobFilter struct {
	patterns []string
}

// NewGlobFilter validates and stores patterns. Patterns without a slash
// match the base name, so "*.go" selects Go files at any depth.
func NewGlobFilter(patterns []string) (*GlobFilter, error) {
	f := &GlobFilter{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

// Empty reports whether no patterns were configured
func (f *GlobFilter) Empty() bool {
	return f == nil || len(f.patterns) == 0
}

// Match reports whether the path or its base name matches any pattern
func (f *GlobFilter) Match(p string) bool {
	if f.Empty() {
		return false
	}
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	base := path.Base(p)

	for _, pattern := range f.patterns {
		if matched, _ := doublestar.Match(pattern, p); matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, base); matched {
				return true
			}
		}
	}
	return false
}

// Predicate returns the filter as a Predicate, or nil when it has no
// patterns so that an empty include list admits everything.
func (f *GlobFilter) Predicate() Predicate {
	if f.Empty() {
		return nil
	}
	return f.Match
}
