package source

import (
	"bytes"

	"github.com/standardbeagle/lgrep/internal/types"
)

// Lines iterates over separator-delimited records of a byte slice.
// Line numbers start at 1; a trailing unterminated line is still produced.
type Lines struct {
	data   []byte
	sep    byte
	pos    int
	number int
}

// NewLines returns an iterator over data
func NewLines(data []byte, sep byte) *Lines {
	return &Lines{data: data, sep: sep}
}

// Next returns the next line, or false once the content is exhausted
func (it *Lines) Next() (types.LineRecord, bool) {
	if it.pos >= len(it.data) {
		return types.LineRecord{}, false
	}

	start := it.pos
	rest := it.data[start:]
	it.number++

	idx := bytes.IndexByte(rest, it.sep)
	if idx < 0 {
		it.pos = len(it.data)
		return types.LineRecord{
			Offset:     int64(start),
			Number:     it.number,
			Content:    rest,
			Terminated: false,
		}, true
	}

	it.pos = start + idx + 1
	return types.LineRecord{
		Offset:     int64(start),
		Number:     it.number,
		Content:    rest[:idx:idx],
		Terminated: true,
	}, true
}
