package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/lgrep/internal/debug"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/types"
)

// Config file names searched in the home and project directories
const (
	KDLFileName  = ".lgrep.kdl"
	TOMLFileName = ".lgrep.toml"
)

// Config holds settings that can be given in config files. Command-line
// flags are applied on top by the CLI.
type Config struct {
	Search      Search
	Walk        Walk
	Output      Output
	Performance Performance
	Include     []string
	Exclude     []string
	ExcludeDir  []string

	// unknown collects "section.key" names the loaders did not recognise;
	// the Validator reports them with suggestions
	unknown []string
}

type Search struct {
	IgnoreCase   bool
	FixedStrings bool
	WordRegexp   bool
	Before       int    // default -B
	After        int    // default -A
	MaxCount     int    // 0 = unlimited
	BinaryFiles  string // binary, text or without-match
}

type Walk struct {
	Recursive      bool
	FollowSymlinks bool
}

type Output struct {
	Color       string // auto, always or never
	LineNumbers bool
	ByteOffset  bool
}

type Performance struct {
	Workers       int   // 0 = one per CPU
	MmapThreshold int64 // bytes; negative disables memory mapping
	DebounceMs    int   // watch mode event batching
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Search: Search{
			BinaryFiles: "binary",
		},
		Output: Output{
			Color: "auto",
		},
		Performance: Performance{
			Workers:       0,
			MmapThreshold: types.DefaultMmapThreshold,
			DebounceMs:    types.DefaultDebounceMs,
		},
		Include:    []string{},
		Exclude:    []string{},
		ExcludeDir: []string{},
	}
}

// Load builds the configuration for a project directory: defaults, then
// ~/.lgrep.kdl, then the project's .lgrep.kdl or .lgrep.toml.
func Load(projectDir string) (*Config, error) {
	cfg := Default()

	// Step 1: global base config
	if home, err := os.UserHomeDir(); err == nil {
		global, err := loadFromDir(home, cfg)
		if err != nil {
			return nil, err
		}
		if global != nil {
			debug.LogConfig("loaded global config from %s", home)
			cfg = global
		}
	}

	// Step 2: project config overrides the global one
	if projectDir == "" {
		projectDir = "."
	}
	if abs, err := filepath.Abs(projectDir); err == nil {
		if home, herr := os.UserHomeDir(); herr == nil && filepath.Clean(home) == abs {
			// Home directory config was already applied
			return cfg, nil
		}
	}
	project, err := loadFromDir(projectDir, cfg)
	if err != nil {
		return nil, err
	}
	if project != nil {
		debug.LogConfig("loaded project config from %s", projectDir)
		cfg = project
	}
	return cfg, nil
}

// LoadFile loads an explicit config file (--config) on top of base.
// The format is chosen by extension: .toml is TOML, anything else KDL.
func LoadFile(path string, base *Config) (*Config, error) {
	if base == nil {
		base = Default()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, lgerrors.NewConfigError("config", path, err)
	}

	var cfg *Config
	if filepath.Ext(path) == ".toml" {
		cfg, err = parseTOML(content, base)
	} else {
		cfg, err = parseKDL(string(content), base)
	}
	if err != nil {
		return nil, lgerrors.NewConfigError("config", path, err)
	}
	return cfg, nil
}

// loadFromDir loads .lgrep.kdl or, failing that, .lgrep.toml from dir.
// It returns nil without error when neither exists.
func loadFromDir(dir string, base *Config) (*Config, error) {
	for _, name := range []string{KDLFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path, base)
	}
	return nil, nil
}

// clone returns a deep copy so overlays never mutate their base
func (c *Config) clone() *Config {
	out := *c
	out.Include = append([]string(nil), c.Include...)
	out.Exclude = append([]string(nil), c.Exclude...)
	out.ExcludeDir = append([]string(nil), c.ExcludeDir...)
	out.unknown = append([]string(nil), c.unknown...)
	return &out
}

// mergePatterns appends patterns to base, dropping duplicates
func mergePatterns(base, add []string) []string {
	return DeduplicatePatterns(append(append([]string(nil), base...), add...))
}

// DeduplicatePatterns removes duplicate patterns while preserving order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}
