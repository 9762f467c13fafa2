package display

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lgrep/internal/classify"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/scanner"
	"github.com/standardbeagle/lgrep/internal/types"
)

var regexpANSI = regexp.MustCompile("\x1b\\[[0-9;]*m")

func line(number int, offset int64, content string) types.LineRecord {
	return types.LineRecord{Number: number, Offset: offset, Content: []byte(content), Terminated: true}
}

func match(path string, l types.LineRecord, spans ...types.Span) types.OutputRecord {
	return types.OutputRecord{Kind: types.RecordMatch, Path: path, Line: l, Spans: spans}
}

func context(path string, l types.LineRecord) types.OutputRecord {
	return types.OutputRecord{Kind: types.RecordContext, Path: path, Line: l}
}

func separator(path string) types.OutputRecord {
	return types.OutputRecord{Kind: types.RecordSeparator, Path: path}
}

func emitAll(t *testing.T, opts Options, results ...*types.ScanResult) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, opts)
	for _, r := range results {
		require.NoError(t, p.Emit(r))
	}
	return out.String(), errOut.String()
}

func TestPrinter_LineFormats(t *testing.T) {
	result := &types.ScanResult{
		Path: "a.txt",
		Records: []types.OutputRecord{
			match("a.txt", line(1, 0, "foo"), types.Span{Start: 0, End: 3}),
			context("a.txt", line(2, 4, "bar")),
			match("a.txt", line(3, 8, "foo"), types.Span{Start: 0, End: 3}),
		},
		Matched: true,
	}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"plain", Options{}, "foo\nbar\nfoo\n"},
		{"with filename", Options{WithFilename: true}, "a.txt:foo\na.txt-bar\na.txt:foo\n"},
		{"line numbers", Options{LineNumbers: true}, "1:foo\n2-bar\n3:foo\n"},
		{"everything", Options{WithFilename: true, LineNumbers: true, ByteOffset: true}, "a.txt:1:0:foo\na.txt-2-4-bar\na.txt:3:8:foo\n"},
		{"null data", Options{NullData: true}, "foo\x00bar\x00foo\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := emitAll(t, tt.opts, result)
			assert.Equal(t, tt.want, out)
			assert.Empty(t, errOut)
		})
	}
}

func TestPrinter_Separators(t *testing.T) {
	first := &types.ScanResult{
		Path: "a",
		Records: []types.OutputRecord{
			match("a", line(1, 0, "x")),
			separator("a"),
			match("a", line(9, 20, "x")),
		},
	}
	second := &types.ScanResult{Path: "b", Records: []types.OutputRecord{match("b", line(2, 2, "x"))}}

	out, _ := emitAll(t, Options{WithFilename: true, Context: true}, first, second)
	assert.Equal(t, "a:x\n--\na:x\n--\nb:x\n", out)

	// Without context there is no group separator between files
	out, _ = emitAll(t, Options{WithFilename: true}, second, second)
	assert.Equal(t, "b:x\nb:x\n", out)
}

func TestPrinter_OnlyMatching(t *testing.T) {
	l := line(4, 100, "ab-ab")
	result := &types.ScanResult{
		Path: "f",
		Records: []types.OutputRecord{
			match("f", l, types.Span{Start: 0, End: 2}),
			match("f", l, types.Span{Start: 3, End: 5}),
		},
	}

	out, _ := emitAll(t, Options{Mode: scanner.ModeOnlyMatching, LineNumbers: true, ByteOffset: true}, result)
	assert.Equal(t, "4:100:ab\n4:103:ab\n", out)
}

func TestPrinter_SummaryModes(t *testing.T) {
	count := &types.ScanResult{Path: "a.txt", Records: []types.OutputRecord{{Kind: types.RecordSummary, Path: "a.txt", Count: 3}}}

	out, _ := emitAll(t, Options{Mode: scanner.ModeCount, WithFilename: true}, count)
	assert.Equal(t, "a.txt:3\n", out)

	out, _ = emitAll(t, Options{Mode: scanner.ModeCount}, count)
	assert.Equal(t, "3\n", out)

	listed := &types.ScanResult{Path: "b.txt", Records: []types.OutputRecord{{Kind: types.RecordFileMatched, Path: "b.txt"}}}
	out, _ = emitAll(t, Options{Mode: scanner.ModeFilesWithMatches}, listed, &types.ScanResult{Path: "c.txt"})
	assert.Equal(t, "b.txt\n", out)
}

func TestPrinter_StdinLabel(t *testing.T) {
	result := &types.ScanResult{Path: "-", Records: []types.OutputRecord{match("-", line(1, 0, "hit"))}}
	out, _ := emitAll(t, Options{WithFilename: true}, result)
	assert.Equal(t, "(standard input):hit\n", out)
}

func TestPrinter_BinaryNotice(t *testing.T) {
	hit := &types.ScanResult{Path: "img.bin", Status: types.StatusBinarySkipped, Matched: true}
	miss := &types.ScanResult{Path: "other.bin", Status: types.StatusBinarySkipped}

	out, _ := emitAll(t, Options{Binary: classify.BinaryAuto}, hit, miss)
	assert.Equal(t, "Binary file img.bin matches\n", out)

	out, _ = emitAll(t, Options{Binary: classify.BinarySkip}, hit)
	assert.Empty(t, out)

	// Summary modes skip binary files without a notice or a count
	out, _ = emitAll(t, Options{Binary: classify.BinaryAuto, Mode: scanner.ModeCount}, hit)
	assert.Empty(t, out)
}

func TestPrinter_Errors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope")
	_, statErr := os.Stat(missing)
	result := &types.ScanResult{
		Path:   missing,
		Status: types.StatusReadError,
		Err:    lgerrors.NewFileError("open", missing, statErr),
	}

	out, errOut := emitAll(t, Options{}, result)
	assert.Empty(t, out)
	assert.Equal(t, "lgrep: "+missing+": No such file or directory\n", errOut)

	_, errOut = emitAll(t, Options{NoMessages: true}, result)
	assert.Empty(t, errOut)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPrinter_WriteErrorPropagates(t *testing.T) {
	p := NewPrinter(failingWriter{}, &bytes.Buffer{}, Options{})
	err := p.Emit(&types.ScanResult{Path: "a", Records: []types.OutputRecord{match("a", line(1, 0, "x"))}})
	assert.Error(t, err)
}

func TestPrinter_Color(t *testing.T) {
	result := &types.ScanResult{
		Path:    "a.txt",
		Records: []types.OutputRecord{match("a.txt", line(1, 0, "say foo now"), types.Span{Start: 4, End: 7})},
	}

	out, _ := emitAll(t, Options{Color: true, WithFilename: true}, result)
	assert.Contains(t, out, "\x1b[")
	assert.True(t, strings.HasSuffix(out, " now\n"))
	assert.Contains(t, out, "say ")

	stripped := regexpANSI.ReplaceAllString(out, "")
	assert.Equal(t, "a.txt:say foo now\n", stripped)

	plain, _ := emitAll(t, Options{Color: false, WithFilename: true}, result)
	assert.Equal(t, "a.txt:say foo now\n", plain)
}

func TestResolveColor(t *testing.T) {
	on, err := ResolveColor("always", nil)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ResolveColor("never", nil)
	require.NoError(t, err)
	assert.False(t, on)

	// A regular file is never a terminal
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	on, err = ResolveColor("auto", f)
	require.NoError(t, err)
	assert.False(t, on)

	_, err = ResolveColor("sometimes", nil)
	assert.Error(t, err)
}
