package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/types"
)

func spans(pairs ...int) []types.Span {
	var out []types.Span
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, types.Span{Start: pairs[i], End: pairs[i+1]})
	}
	return out
}

func mustCompile(t *testing.T, spec Spec) Matcher {
	t.Helper()
	m, err := Compile(spec)
	require.NoError(t, err)
	return m
}

func TestCompile_CaseSensitivity(t *testing.T) {
	sensitive := mustCompile(t, Spec{Pattern: "Hello"})
	assert.True(t, sensitive.IsMatch([]byte("Hello world")))
	assert.False(t, sensitive.IsMatch([]byte("hello world")))

	insensitive := mustCompile(t, Spec{Pattern: "Hello", IgnoreCase: true})
	assert.True(t, insensitive.IsMatch([]byte("hello world")))
}

func TestCompile_InvalidRegex(t *testing.T) {
	_, err := Compile(Spec{Pattern: "[invalid"})
	require.Error(t, err)

	var pe *lgerrors.PatternError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "[invalid", pe.Pattern)

	// The same text is a valid literal
	_, err = Compile(Spec{Pattern: "[invalid", Mode: ModeFixed})
	assert.NoError(t, err)
}

func TestCompile_WrappingDoesNotHideInvalidPattern(t *testing.T) {
	for _, spec := range []Spec{
		{Pattern: "a)(b", LineBoundary: true},
		{Pattern: "a)(b", WordBoundary: true},
	} {
		_, err := Compile(spec)
		var pe *lgerrors.PatternError
		assert.True(t, errors.As(err, &pe), "pattern %q should be rejected", spec.Pattern)
	}
}

func TestIsMatch_AnchoredWordPattern(t *testing.T) {
	m := mustCompile(t, Spec{Pattern: "^.", WordBoundary: true})
	assert.False(t, m.IsMatch([]byte("ab c")))
	assert.True(t, m.IsMatch([]byte("a bc")))

	// \A behaves like ^ and must not match after the first word
	m = mustCompile(t, Spec{Pattern: `\Ab`, WordBoundary: true})
	assert.False(t, m.IsMatch([]byte("a b")))
}

func TestFindIn_Modes(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		line string
		want []types.Span
	}{
		{"fixed all occurrences", Spec{Pattern: "ab", Mode: ModeFixed}, "ab-ab-xab", spans(0, 2, 3, 5, 7, 9)},
		{"fixed non overlapping", Spec{Pattern: "aa", Mode: ModeFixed}, "aaaa", spans(0, 2, 2, 4)},
		{"fixed no match", Spec{Pattern: "zz", Mode: ModeFixed}, "abc", nil},
		{"fixed metachars literal", Spec{Pattern: "a.c", Mode: ModeFixed}, "abc a.c", spans(4, 7)},
		{"fixed ignore case keeps offsets", Spec{Pattern: "BAR", Mode: ModeFixed, IgnoreCase: true}, "foo Bar", spans(4, 7)},
		{"regex alternation", Spec{Pattern: "fo+|ba."}, "foo bar", spans(0, 3, 4, 7)},
		{"regex ignore case", Spec{Pattern: "bar", IgnoreCase: true}, "BAR", spans(0, 3)},
		{"word fixed rejects embedded", Spec{Pattern: "test", Mode: ModeFixed, WordBoundary: true}, "testing test contest", spans(8, 12)},
		{"word fixed later occurrence", Spec{Pattern: "foo", Mode: ModeFixed, WordBoundary: true}, "foobar foo", spans(7, 10)},
		{"word regex", Spec{Pattern: "te[a-z]t", WordBoundary: true}, "testing text", spans(8, 12)},
		{"word regex anchored mid line", Spec{Pattern: "^.", WordBoundary: true}, "ab c", nil},
		{"word regex anchored at start", Spec{Pattern: "^a", WordBoundary: true}, "a b", spans(0, 1)},
		{"word regex adjacent words", Spec{Pattern: "foo", WordBoundary: true}, "foo foo", spans(0, 3, 4, 7)},
		{"word regex bounded alternative", Spec{Pattern: "ab|abcd", WordBoundary: true}, "abcd e", spans(0, 4)},
		{"word regex ignore case", Spec{Pattern: "foo", WordBoundary: true, IgnoreCase: true}, "xfoo FOO", spans(5, 8)},
		{"word non-word edges", Spec{Pattern: "@x", Mode: ModeFixed, WordBoundary: true}, "a @x b", spans(2, 4)},
		{"word underscore is word char", Spec{Pattern: "id", Mode: ModeFixed, WordBoundary: true}, "user_id id", spans(8, 10)},
		{"line fixed", Spec{Pattern: "foo", Mode: ModeFixed, LineBoundary: true}, "foo", spans(0, 3)},
		{"line fixed partial", Spec{Pattern: "foo", Mode: ModeFixed, LineBoundary: true}, "foo bar", nil},
		{"line fixed trims newline", Spec{Pattern: "foo", Mode: ModeFixed, LineBoundary: true}, "foo\n", spans(0, 3)},
		{"line regex", Spec{Pattern: "a|ab", LineBoundary: true}, "ab", spans(0, 2)},
		{"line regex crlf", Spec{Pattern: "ab", LineBoundary: true}, "ab\r\n", spans(0, 2)},
		{"line fixed null data keeps newline", Spec{Pattern: "foo", Mode: ModeFixed, LineBoundary: true, NullData: true}, "foo\n", nil},
		{"line regex null data keeps newline", Spec{Pattern: "foo", LineBoundary: true, NullData: true}, "foo\n", nil},
		{"line ignore case", Spec{Pattern: "FOO", Mode: ModeFixed, LineBoundary: true, IgnoreCase: true}, "Foo", spans(0, 3)},
		{"empty fixed matches everything", Spec{Pattern: "", Mode: ModeFixed}, "anything", spans(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustCompile(t, tt.spec)
			got := m.FindIn([]byte(tt.line))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) > 0, m.IsMatch([]byte(tt.line)), "IsMatch must agree with FindIn")
		})
	}
}

func TestFindIn_DoesNotMutateInput(t *testing.T) {
	m := mustCompile(t, Spec{Pattern: "abc", Mode: ModeFixed, IgnoreCase: true})
	line := []byte("xxABCxx")
	got := m.FindIn(line)

	assert.Equal(t, spans(2, 5), got)
	assert.Equal(t, "xxABCxx", string(line))
	assert.Equal(t, "ABC", string(line[got[0].Start:got[0].End]))
}

func TestFindIn_NonASCIIOffsetsStable(t *testing.T) {
	m := mustCompile(t, Spec{Pattern: "X", Mode: ModeFixed, IgnoreCase: true})
	line := []byte("héllo x")
	got := m.FindIn(line)
	require.Len(t, got, 1)
	assert.Equal(t, "x", string(line[got[0].Start:got[0].End]))
}

func TestCompileAll_Disjunction(t *testing.T) {
	m, err := CompileAll([]Spec{
		{Pattern: "TODO", Mode: ModeFixed},
		{Pattern: "FIX(ME)?"},
	})
	require.NoError(t, err)

	assert.True(t, m.IsMatch([]byte("// TODO: x")))
	assert.True(t, m.IsMatch([]byte("// FIXME")))
	assert.False(t, m.IsMatch([]byte("// NOTE")))
	assert.Equal(t, spans(0, 4, 5, 10), m.FindIn([]byte("TODO FIXME")))
}

func TestCompileAll_MergesOverlappingSpans(t *testing.T) {
	m, err := CompileAll([]Spec{
		{Pattern: "foobar", Mode: ModeFixed},
		{Pattern: "bar", Mode: ModeFixed},
		{Pattern: "baz", Mode: ModeFixed},
	})
	require.NoError(t, err)

	assert.Equal(t, spans(0, 6, 7, 10), m.FindIn([]byte("foobar baz")))
}

func TestCompileAll_InvalidPatternFails(t *testing.T) {
	_, err := CompileAll([]Spec{{Pattern: "ok"}, {Pattern: "(unclosed"}})
	require.Error(t, err)
	assert.True(t, lgerrors.IsFatal(err))
}

func TestCompileAll_Empty(t *testing.T) {
	_, err := CompileAll(nil)
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	specs := []Spec{
		{Pattern: "a"},
		{Pattern: "b"},
		{Pattern: "a"},
		{Pattern: "a", IgnoreCase: true},
	}
	got := Dedupe(specs)
	assert.Equal(t, []Spec{{Pattern: "a"}, {Pattern: "b"}, {Pattern: "a", IgnoreCase: true}}, got)
}

func TestMergeSpans(t *testing.T) {
	assert.Equal(t, spans(0, 5), mergeSpans(spans(2, 5, 0, 3)))
	assert.Equal(t, spans(0, 1, 1, 2), mergeSpans(spans(1, 2, 0, 1)))
	assert.Equal(t, spans(0, 0), mergeSpans(spans(0, 0, 0, 0)))
	assert.Nil(t, mergeSpans(nil))
}

func TestCompileCached_Reuse(t *testing.T) {
	a, err := compileCached(`x+y`)
	require.NoError(t, err)
	b, err := compileCached(`x+y`)
	require.NoError(t, err)
	assert.Same(t, a, b)
}
