// Package display renders scan results in grep's output format.
package display

import (
	"bytes"
	"io"
	"strconv"
	"sync"

	"github.com/standardbeagle/lgrep/internal/classify"
	"github.com/standardbeagle/lgrep/internal/scanner"
	"github.com/standardbeagle/lgrep/internal/source"
	"github.com/standardbeagle/lgrep/internal/types"
)

// StdinLabel is printed in place of the "-" path
const StdinLabel = "(standard input)"

// Options controls the output format
type Options struct {
	Mode         scanner.Mode
	WithFilename bool // -H / -h
	LineNumbers  bool // -n
	ByteOffset   bool // -b
	NullData     bool // -z: lines end in NUL instead of newline
	Context      bool // before or after context requested; groups are split by "--"
	NoMessages   bool // -s
	Binary       classify.BinaryMode
	Color        bool
}

// Printer writes results to out and per-file diagnostics to errOut.
// It implements scheduler.Sink; each result is written with a single Write.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	opts   Options
	colors palette

	mu      sync.Mutex
	buf     bytes.Buffer
	grouped bool // a context group has been printed
}

// NewPrinter creates a printer
func NewPrinter(out, errOut io.Writer, opts Options) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		opts:   opts,
		colors: newPalette(opts.Color),
	}
}

// Emit renders one file's result
func (p *Printer) Emit(r *types.ScanResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r.Err != nil {
		if !p.opts.NoMessages {
			io.WriteString(p.errOut, "lgrep: "+r.Err.Error()+"\n")
		}
		return nil
	}

	p.buf.Reset()
	if r.Status == types.StatusBinarySkipped {
		if r.Matched && p.opts.Binary == classify.BinaryAuto && p.opts.Mode.PrintsLines() {
			p.buf.WriteString("Binary file " + label(r.Path) + " matches\n")
		}
	} else {
		p.render(r)
	}

	if p.buf.Len() == 0 {
		return nil
	}
	_, err := p.out.Write(p.buf.Bytes())
	return err
}

func (p *Printer) render(r *types.ScanResult) {
	first := true
	for i := range r.Records {
		rec := &r.Records[i]
		switch rec.Kind {
		case types.RecordMatch, types.RecordContext:
			if first && p.opts.Context && p.grouped {
				p.writeSeparator()
			}
			first = false
			p.grouped = true
			p.writeLine(rec)
		case types.RecordSeparator:
			p.writeSeparator()
		case types.RecordSummary:
			if p.opts.WithFilename {
				p.buf.WriteString(p.colors.path.Sprint(label(rec.Path)))
				p.buf.WriteString(p.colors.separator.Sprint(":"))
			}
			p.buf.WriteString(strconv.Itoa(rec.Count))
			p.buf.WriteByte('\n')
		case types.RecordFileMatched:
			p.buf.WriteString(p.colors.path.Sprint(label(rec.Path)))
			p.buf.WriteByte('\n')
		}
	}
}

func (p *Printer) writeSeparator() {
	p.buf.WriteString(p.colors.separator.Sprint("--"))
	p.buf.WriteByte('\n')
}

// writeLine renders [path sep][lineno sep][offset sep]content
func (p *Printer) writeLine(rec *types.OutputRecord) {
	sep := "-"
	if rec.Kind == types.RecordMatch {
		sep = ":"
	}
	sepText := p.colors.separator.Sprint(sep)

	content := rec.Line.Content
	offset := rec.Line.Offset
	onlyMatching := p.opts.Mode == scanner.ModeOnlyMatching && rec.Kind == types.RecordMatch && len(rec.Spans) == 1
	if onlyMatching {
		sp := rec.Spans[0]
		content = content[sp.Start:sp.End]
		offset += int64(sp.Start)
	}

	if p.opts.WithFilename {
		p.buf.WriteString(p.colors.path.Sprint(label(rec.Path)))
		p.buf.WriteString(sepText)
	}
	if p.opts.LineNumbers {
		p.buf.WriteString(p.colors.lineNo.Sprint(strconv.Itoa(rec.Line.Number)))
		p.buf.WriteString(sepText)
	}
	if p.opts.ByteOffset {
		p.buf.WriteString(p.colors.offset.Sprint(strconv.FormatInt(offset, 10)))
		p.buf.WriteString(sepText)
	}

	switch {
	case onlyMatching:
		p.buf.WriteString(p.colors.match.Sprint(string(content)))
	case rec.Kind == types.RecordMatch && p.opts.Color:
		p.writeHighlighted(content, rec.Spans)
	default:
		p.buf.Write(content)
	}

	if p.opts.NullData {
		p.buf.WriteByte(0)
	} else {
		p.buf.WriteByte('\n')
	}
}

// writeHighlighted colours each span of a matched line
func (p *Printer) writeHighlighted(content []byte, spans []types.Span) {
	pos := 0
	for _, sp := range spans {
		if sp.Len() == 0 || sp.Start < pos || sp.End > len(content) {
			continue
		}
		p.buf.Write(content[pos:sp.Start])
		p.buf.WriteString(p.colors.match.Sprint(string(content[sp.Start:sp.End])))
		pos = sp.End
	}
	p.buf.Write(content[pos:])
}

func label(path string) string {
	if path == source.StdinPath {
		return StdinLabel
	}
	return path
}
