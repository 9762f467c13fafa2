package testhelpers

import (
	"github.com/standardbeagle/lgrep/internal/engine"
	"github.com/standardbeagle/lgrep/internal/scanner"
)

// OptionsBuilder provides a fluent API for building engine options in tests.
// Workers default to 4 so concurrency is exercised even on small machines.
// Usage:
//
//	opts := testhelpers.NewOptionsBuilder("TODO", root).
//		Recursive().
//		WithContext(1, 1).
//		Build()
type OptionsBuilder struct {
	opts engine.Options
}

// NewOptionsBuilder starts from a regex pattern and the given roots
func NewOptionsBuilder(pattern string, roots ...string) *OptionsBuilder {
	return &OptionsBuilder{opts: engine.Options{
		Patterns: []string{pattern},
		Roots:    roots,
		Workers:  4,
	}}
}

// WithPatterns adds further patterns (-e)
func (b *OptionsBuilder) WithPatterns(patterns ...string) *OptionsBuilder {
	b.opts.Patterns = append(b.opts.Patterns, patterns...)
	return b
}

// Recursive enables directory recursion
func (b *OptionsBuilder) Recursive() *OptionsBuilder {
	b.opts.Recursive = true
	return b
}

// Fixed treats patterns as literals
func (b *OptionsBuilder) Fixed() *OptionsBuilder {
	b.opts.Fixed = true
	return b
}

// IgnoreCase enables case-insensitive matching
func (b *OptionsBuilder) IgnoreCase() *OptionsBuilder {
	b.opts.IgnoreCase = true
	return b
}

// Invert selects non-matching lines
func (b *OptionsBuilder) Invert() *OptionsBuilder {
	b.opts.Invert = true
	return b
}

// WithMode sets the output mode
func (b *OptionsBuilder) WithMode(mode scanner.Mode) *OptionsBuilder {
	b.opts.Mode = mode
	return b
}

// WithContext sets before and after context
func (b *OptionsBuilder) WithContext(before, after int) *OptionsBuilder {
	b.opts.Before = before
	b.opts.After = after
	return b
}

// WithMaxCount sets -m
func (b *OptionsBuilder) WithMaxCount(n int) *OptionsBuilder {
	b.opts.MaxCount = n
	return b
}

// WithInclude sets include globs
func (b *OptionsBuilder) WithInclude(patterns ...string) *OptionsBuilder {
	b.opts.Include = patterns
	return b
}

// WithExclude sets exclude globs
func (b *OptionsBuilder) WithExclude(patterns ...string) *OptionsBuilder {
	b.opts.Exclude = patterns
	return b
}

// WithExcludeDir sets directory exclusion globs
func (b *OptionsBuilder) WithExcludeDir(patterns ...string) *OptionsBuilder {
	b.opts.ExcludeDir = patterns
	return b
}

// WithWorkers overrides the worker count
func (b *OptionsBuilder) WithWorkers(n int) *OptionsBuilder {
	b.opts.Workers = n
	return b
}

// WithMmapThreshold overrides the mapping threshold
func (b *OptionsBuilder) WithMmapThreshold(n int64) *OptionsBuilder {
	b.opts.MmapThreshold = n
	return b
}

// Build returns the options
func (b *OptionsBuilder) Build() engine.Options {
	return b.opts
}
