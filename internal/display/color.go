package display

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// palette holds the colours of each output element. Every colour is
// explicitly enabled or disabled so output does not depend on the
// process-wide color.NoColor detection.
type palette struct {
	path      *color.Color
	lineNo    *color.Color
	offset    *color.Color
	separator *color.Color
	match     *color.Color
}

// newPalette uses GNU grep's default GREP_COLORS scheme
func newPalette(enabled bool) palette {
	p := palette{
		path:      color.New(color.FgMagenta),
		lineNo:    color.New(color.FgGreen),
		offset:    color.New(color.FgGreen),
		separator: color.New(color.FgCyan),
		match:     color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.lineNo, p.offset, p.separator, p.match} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// ResolveColor turns a --color value into an on/off decision for output
// written to f
func ResolveColor(mode string, f *os.File) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" || f == nil {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
}
