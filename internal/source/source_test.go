package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/types"
)

func collect(t *testing.T, src Source) []types.LineRecord {
	t.Helper()
	var out []types.LineRecord
	it := src.Lines()
	for {
		rec, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, rec)
	}
}

func contents(recs []types.LineRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = string(r.Content)
	}
	return out
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLines_Basic(t *testing.T) {
	recs := collect(t, FromBytes([]byte("foo\nbar\nbaz\n"), '\n'))

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"foo", "bar", "baz"}, contents(recs))
	for i, r := range recs {
		assert.Equal(t, i+1, r.Number)
		assert.True(t, r.Terminated)
	}
	assert.Equal(t, int64(0), recs[0].Offset)
	assert.Equal(t, int64(4), recs[1].Offset)
	assert.Equal(t, int64(8), recs[2].Offset)
}

func TestLines_UnterminatedFinalLine(t *testing.T) {
	recs := collect(t, FromBytes([]byte("a\nb"), '\n'))

	require.Len(t, recs, 2)
	assert.True(t, recs[0].Terminated)
	assert.False(t, recs[1].Terminated)
	assert.Equal(t, "b", string(recs[1].Content))
	assert.Equal(t, 2, recs[1].Number)
}

func TestLines_EmptyAndBlank(t *testing.T) {
	assert.Empty(t, collect(t, FromBytes(nil, '\n')))

	recs := collect(t, FromBytes([]byte("\n\nx\n"), '\n'))
	assert.Equal(t, []string{"", "", "x"}, contents(recs))
}

func TestLines_NulSeparator(t *testing.T) {
	recs := collect(t, FromBytes([]byte("one\ntwo\x00three\x00"), types.NullLineSeparator))
	assert.Equal(t, []string{"one\ntwo", "three"}, contents(recs))
}

func TestLines_ContentCannotClobberNext(t *testing.T) {
	data := []byte("ab\ncd\n")
	recs := collect(t, FromBytes(data, '\n'))
	_ = append(recs[0].Content, 'X')
	assert.Equal(t, "ab\ncd\n", string(data))
}

func TestOpen_Buffered(t *testing.T) {
	path := writeFile(t, "hello\nworld")

	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	assert.False(t, src.Mapped())
	assert.Equal(t, int64(11), src.Size())
	assert.Equal(t, []string{"hello", "world"}, contents(collect(t, src)))
}

func TestOpen_MappedMatchesBuffered(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("line with some text ")
		sb.WriteString(strings.Repeat("x", i%17))
		sb.WriteByte('\n')
	}
	sb.WriteString("tail without newline")
	path := writeFile(t, sb.String())

	mapped, err := Open(path, Options{MmapThreshold: 1})
	require.NoError(t, err)
	defer mapped.Close()

	buffered, err := Open(path, Options{MmapThreshold: -1})
	require.NoError(t, err)
	defer buffered.Close()

	assert.False(t, buffered.Mapped())
	assert.Equal(t, collect(t, buffered), collect(t, mapped))
	assert.Equal(t, buffered.Size(), mapped.Size())
}

func TestOpen_EmptyFileFallsBack(t *testing.T) {
	path := writeFile(t, "")

	src, err := Open(path, Options{MmapThreshold: 1})
	require.NoError(t, err)
	defer src.Close()

	assert.False(t, src.Mapped(), "zero-length files cannot be mapped")
	assert.Empty(t, collect(t, src))
}

func TestOpen_CloseIsIdempotent(t *testing.T) {
	path := writeFile(t, "data\n")
	src, err := Open(path, Options{MmapThreshold: 1})
	require.NoError(t, err)

	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)

	var fe *lgerrors.FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, lgerrors.IoNotFound, fe.Kind)
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir(), Options{})
	require.Error(t, err)
	assert.Equal(t, lgerrors.IoIsADirectory, lgerrors.IoKindOf(err))
}

func TestOpen_Stdin(t *testing.T) {
	src, err := Open(StdinPath, Options{Stdin: strings.NewReader("x\ny\n")})
	require.NoError(t, err)
	defer src.Close()

	assert.False(t, src.Mapped())
	assert.Equal(t, []string{"x", "y"}, contents(collect(t, src)))
}
