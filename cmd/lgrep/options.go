package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lgrep/internal/classify"
	"github.com/standardbeagle/lgrep/internal/config"
	"github.com/standardbeagle/lgrep/internal/debug"
	"github.com/standardbeagle/lgrep/internal/display"
	"github.com/standardbeagle/lgrep/internal/engine"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/scanner"
	"github.com/standardbeagle/lgrep/internal/source"
)

var errNoPattern = errors.New("no pattern given")

// invocation is one fully resolved command line
type invocation struct {
	engine   engine.Options
	display  display.Options
	watch    bool
	debounce time.Duration

	// selectsNothing is set when no line can ever be selected (-m 0, or an
	// empty -f file); the run exits 1 without reading input
	selectsNothing bool
}

// resolve merges config files and flags. Flags win over config values;
// --include replaces configured includes while exclusions accumulate.
func resolve(c *cli.Context, stdin io.Reader, stdout io.Writer) (*invocation, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	inv := &invocation{}
	eo := &inv.engine
	eo.Stdin = stdin

	// Patterns
	args := c.Args().Slice()
	eo.Patterns = append(eo.Patterns, c.StringSlice(flagRegexp)...)
	for _, path := range c.StringSlice(flagFile) {
		patterns, err := readPatternFile(path, stdin)
		if err != nil {
			return nil, lgerrors.NewConfigError(flagFile, path, err)
		}
		eo.Patterns = append(eo.Patterns, patterns...)
	}
	if !c.IsSet(flagRegexp) && !c.IsSet(flagFile) {
		if len(args) == 0 {
			return nil, errNoPattern
		}
		eo.Patterns = []string{args[0]}
		args = args[1:]
	}
	if len(eo.Patterns) == 0 {
		inv.selectsNothing = true
	}

	eo.Fixed = c.Bool(flagFixed) || cfg.Search.FixedStrings
	eo.IgnoreCase = c.Bool(flagIgnoreCase) || cfg.Search.IgnoreCase
	eo.WordBoundary = c.Bool(flagWord) || cfg.Search.WordRegexp
	eo.LineBoundary = c.Bool(flagLine)
	eo.Invert = c.Bool(flagInvert)

	// Traversal
	eo.Recursive = c.Bool(flagRecursive) || c.Bool(flagDeref) || cfg.Walk.Recursive
	eo.FollowSymlinks = c.Bool(flagDeref) || cfg.Walk.FollowSymlinks
	eo.Roots = args
	if len(eo.Roots) == 0 {
		if eo.Recursive {
			eo.Roots = []string{"."}
		} else {
			eo.Roots = []string{source.StdinPath}
		}
	}

	eo.Include = cfg.Include
	if c.IsSet(flagInclude) {
		eo.Include = c.StringSlice(flagInclude)
	}
	eo.Exclude = config.DeduplicatePatterns(append(append([]string(nil), cfg.Exclude...), c.StringSlice(flagExclude)...))
	eo.ExcludeDir = config.DeduplicatePatterns(append(append([]string(nil), cfg.ExcludeDir...), c.StringSlice(flagExcludeDir)...))

	// Scanning
	eo.Mode = resolveMode(c)
	if eo.Before, eo.After, err = resolveContext(c, cfg); err != nil {
		return nil, err
	}

	eo.MaxCount = cfg.Search.MaxCount
	if c.IsSet(flagMaxCount) {
		switch n := c.Int(flagMaxCount); {
		case n == 0:
			inv.selectsNothing = true
		case n < 0:
			// Negative means no limit
			eo.MaxCount = 0
		default:
			eo.MaxCount = n
		}
	}

	if eo.Binary, err = resolveBinary(c, cfg); err != nil {
		return nil, err
	}
	eo.NullData = c.Bool(flagNullData)

	eo.Workers = cfg.Performance.Workers
	if c.IsSet(flagThreads) {
		if eo.Workers = c.Int(flagThreads); eo.Workers < 0 {
			return nil, lgerrors.NewConfigError(flagThreads, strconv.Itoa(eo.Workers), errors.New("must not be negative"))
		}
	}
	eo.MmapThreshold = cfg.Performance.MmapThreshold

	// Output
	colorMode := cfg.Output.Color
	if c.IsSet(flagColor) {
		colorMode = c.String(flagColor)
	}
	out, _ := stdout.(*os.File)
	colored, err := display.ResolveColor(colorMode, out)
	if err != nil {
		return nil, lgerrors.NewConfigError(flagColor, colorMode, err)
	}

	inv.display = display.Options{
		Mode:         eo.Mode,
		WithFilename: withFilename(c, eo),
		LineNumbers:  c.Bool(flagLineNumber) || cfg.Output.LineNumbers,
		ByteOffset:   c.Bool(flagByteOffset) || cfg.Output.ByteOffset,
		NullData:     eo.NullData,
		Context:      eo.Mode == scanner.ModeLines && (eo.Before > 0 || eo.After > 0),
		NoMessages:   c.Bool(flagNoMessages),
		Binary:       eo.Binary,
		Color:        colored,
	}

	inv.watch = c.Bool(flagWatch)
	inv.debounce = time.Duration(cfg.Performance.DebounceMs) * time.Millisecond

	debug.LogConfig("patterns=%d roots=%v mode=%s workers=%d", len(eo.Patterns), eo.Roots, eo.Mode, eo.Workers)
	return inv, nil
}

// loadConfig applies home and project config files, then --config
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if path := c.String(flagConfig); path != "" {
		if cfg, err = config.LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readPatternFile reads one pattern per line; "-" reads standard input.
// An empty file yields no patterns.
func readPatternFile(path string, stdin io.Reader) ([]string, error) {
	var data []byte
	var err error
	if path == source.StdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	data = bytes.TrimSuffix(data, []byte("\n"))
	lines := bytes.Split(data, []byte("\n"))
	patterns := make([]string, len(lines))
	for i, l := range lines {
		patterns[i] = string(l)
	}
	return patterns, nil
}

// resolveMode picks the output mode; the most restrictive flag wins
func resolveMode(c *cli.Context) scanner.Mode {
	switch {
	case c.Bool(flagQuiet):
		return scanner.ModeQuiet
	case c.Bool(flagFilesWith):
		return scanner.ModeFilesWithMatches
	case c.Bool(flagFilesWithout):
		return scanner.ModeFilesWithoutMatch
	case c.Bool(flagCount):
		return scanner.ModeCount
	case c.Bool(flagOnlyMatching):
		return scanner.ModeOnlyMatching
	}
	return scanner.ModeLines
}

// resolveContext applies -C first so that -A and -B can refine it
func resolveContext(c *cli.Context, cfg *config.Config) (before, after int, err error) {
	before, after = cfg.Search.Before, cfg.Search.After
	if c.IsSet(flagContext) {
		before = c.Int(flagContext)
		after = before
	}
	if c.IsSet(flagBefore) {
		before = c.Int(flagBefore)
	}
	if c.IsSet(flagAfter) {
		after = c.Int(flagAfter)
	}
	if before < 0 || after < 0 {
		return 0, 0, lgerrors.NewConfigError("context", fmt.Sprintf("%d,%d", before, after), errors.New("invalid context length argument"))
	}
	return before, after, nil
}

func resolveBinary(c *cli.Context, cfg *config.Config) (classify.BinaryMode, error) {
	switch {
	case c.Bool(flagText):
		return classify.BinaryForceText, nil
	case c.Bool(flagNoBinary):
		return classify.BinarySkip, nil
	}
	value := cfg.Search.BinaryFiles
	if c.IsSet(flagBinaryFiles) {
		value = c.String(flagBinaryFiles)
	}
	mode, err := classify.ParseBinaryMode(value)
	if err != nil {
		return mode, lgerrors.NewConfigError(flagBinaryFiles, value, err)
	}
	return mode, nil
}

// withFilename follows grep: names are shown when more than one file can
// be searched, unless -H or -h says otherwise
func withFilename(c *cli.Context, eo *engine.Options) bool {
	switch {
	case c.Bool(flagWithFilename):
		return true
	case c.Bool(flagNoFilename):
		return false
	case len(eo.Roots) > 1:
		return true
	case eo.Recursive:
		info, err := os.Stat(eo.Roots[0])
		return err == nil && info.IsDir()
	}
	return false
}
