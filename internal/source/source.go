// Package source provides line-oriented access to file content, either
// memory mapped or read into an owned buffer.
package source

import (
	"bytes"
	"io"
	"os"

	"github.com/standardbeagle/lgrep/internal/debug"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/types"
)

// StdinPath names standard input on the command line
const StdinPath = "-"

// Options controls how a Source is opened
type Options struct {
	// MmapThreshold is the minimum size for memory mapping.
	// Zero selects types.DefaultMmapThreshold; negative disables mapping.
	MmapThreshold int64
	// NullData terminates lines with NUL instead of '\n' (-z)
	NullData bool
	// Stdin replaces os.Stdin when the path is "-"
	Stdin io.Reader
}

// Separator returns the line terminator byte
func (o Options) Separator() byte {
	if o.NullData {
		return types.NullLineSeparator
	}
	return types.DefaultLineSeparator
}

func (o Options) threshold() int64 {
	if o.MmapThreshold == 0 {
		return types.DefaultMmapThreshold
	}
	return o.MmapThreshold
}

// Source is the content of one opened file.
// Records produced by Lines borrow from the Source and are invalid after Close.
type Source interface {
	// Lines returns a fresh single-pass iterator over the content
	Lines() *Lines
	// Bytes exposes the whole content (binary sampling, -o offsets)
	Bytes() []byte
	// Size is the content length in bytes
	Size() int64
	// Mapped reports whether the content is memory mapped
	Mapped() bool
	// Close releases the mapping or buffer
	Close() error
}

// Open opens path for reading. Failures are *errors.FileError values.
// Mapping failures fall back to a buffered read and are never reported.
func Open(path string, opts Options) (Source, error) {
	sep := opts.Separator()
	if path == StdinPath {
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, lgerrors.NewFileError("read", "(standard input)", err)
		}
		return &bufferedSource{data: data, sep: sep}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, lgerrors.NewFileError("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, lgerrors.NewFileError("stat", path, err)
	}
	if info.IsDir() {
		return nil, lgerrors.NewIsADirectoryError(path)
	}

	size := info.Size()
	if threshold := opts.threshold(); threshold > 0 && size >= threshold && info.Mode().IsRegular() {
		data, err := mmapFile(f, size)
		if err == nil {
			return &mappedSource{data: data, sep: sep}, nil
		}
		debug.LogScan("mmap %s failed, falling back to read: %v", path, err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, size+bytes.MinRead))
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, lgerrors.NewFileError("read", path, err)
	}
	return &bufferedSource{data: buf.Bytes(), sep: sep}, nil
}

// FromBytes wraps in-memory content as a Source
func FromBytes(data []byte, sep byte) Source {
	return &bufferedSource{data: data, sep: sep}
}

// bufferedSource owns a heap copy of the content
type bufferedSource struct {
	data []byte
	sep  byte
}

func (s *bufferedSource) Lines() *Lines { return NewLines(s.data, s.sep) }
func (s *bufferedSource) Bytes() []byte { return s.data }
func (s *bufferedSource) Size() int64   { return int64(len(s.data)) }
func (s *bufferedSource) Mapped() bool  { return false }

func (s *bufferedSource) Close() error {
	s.data = nil
	return nil
}

// mappedSource borrows a read-only memory mapping
type mappedSource struct {
	data []byte
	sep  byte
}

func (s *mappedSource) Lines() *Lines { return NewLines(s.data, s.sep) }
func (s *mappedSource) Bytes() []byte { return s.data }
func (s *mappedSource) Size() int64   { return int64(len(s.data)) }
func (s *mappedSource) Mapped() bool  { return true }

func (s *mappedSource) Close() error {
	if s.data == nil {
		return nil
	}
	err := munmap(s.data)
	s.data = nil
	return err
}
