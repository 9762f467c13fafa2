package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/hbollon/go-edlib"

	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/types"
)

// maxSuggestionDistance is the largest edit distance offered as a suggestion.
// Rationale: beyond 3 edits suggestions for short keys are mostly noise.
const maxSuggestionDistance = 3

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateKeys(cfg); err != nil {
		return err
	}

	if err := v.validateSearchConfig(&cfg.Search); err != nil {
		return lgerrors.NewConfigError("search", "", err)
	}

	if err := v.validateOutputConfig(&cfg.Output); err != nil {
		return lgerrors.NewConfigError("output", cfg.Output.Color, err)
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return lgerrors.NewConfigError("performance", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateKeys rejects unrecognised keys, suggesting the closest known one
func (v *Validator) validateKeys(cfg *Config) error {
	if len(cfg.unknown) == 0 {
		return nil
	}
	errs := make([]error, 0, len(cfg.unknown))
	for _, key := range cfg.unknown {
		msg := "unknown key"
		if s := Suggest(key, KnownKeys()); s != "" {
			msg = fmt.Sprintf("unknown key, did you mean %q?", s)
		}
		errs = append(errs, lgerrors.NewConfigError(key, "", errors.New(msg)))
	}
	return lgerrors.NewMultiError(errs).ErrOrNil()
}

// Suggest returns the candidate closest to key by Levenshtein distance, or
// "" when nothing is close enough
func Suggest(key string, candidates []string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, c := range candidates {
		d := edlib.LevenshteinDistance(key, c)
		// Also compare against the key part alone ("ignorecase" vs "search.ignore_case")
		if i := strings.IndexByte(c, '.'); i >= 0 && !strings.Contains(key, ".") {
			if kd := edlib.LevenshteinDistance(key, c[i+1:]); kd < d {
				d = kd
			}
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// validateSearchConfig validates search configuration
func (v *Validator) validateSearchConfig(search *Search) error {
	if search.Before < 0 {
		return fmt.Errorf("before cannot be negative, got %d", search.Before)
	}
	if search.After < 0 {
		return fmt.Errorf("after cannot be negative, got %d", search.After)
	}
	if search.MaxCount < 0 {
		return fmt.Errorf("max_count cannot be negative, got %d", search.MaxCount)
	}
	switch strings.ToLower(search.BinaryFiles) {
	case "", "binary", "auto", "text", "without-match", "skip":
	default:
		return fmt.Errorf("binary_files must be binary, text or without-match, got %q", search.BinaryFiles)
	}
	return nil
}

// validateOutputConfig validates output configuration
func (v *Validator) validateOutputConfig(out *Output) error {
	switch out.Color {
	case "", "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("color must be auto, always or never, got %q", out.Color)
}

// validatePerformanceConfig validates performance configuration
func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	// Workers: 0 means auto-detect
	if perf.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", perf.Workers)
	}
	if perf.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms cannot be negative, got %d", perf.DebounceMs)
	}
	return nil
}

// setSmartDefaults fills unset values
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.Workers == 0 {
		cfg.Performance.Workers = runtime.NumCPU()
	}
	if cfg.Search.BinaryFiles == "" {
		cfg.Search.BinaryFiles = "binary"
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = "auto"
	}
	// Zero is "use the default"; negative keeps meaning "never map"
	if cfg.Performance.MmapThreshold == 0 {
		cfg.Performance.MmapThreshold = types.DefaultMmapThreshold
	}
	if cfg.Performance.DebounceMs == 0 {
		cfg.Performance.DebounceMs = types.DefaultDebounceMs
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
