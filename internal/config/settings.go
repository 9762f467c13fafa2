package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// setter applies one config value; v is a string, bool, int64, float64 or
// []string as produced by the KDL and TOML decoders
type setter func(cfg *Config, v interface{}) error

// settings maps "section.key" to its setter. Both file formats share it so
// the accepted keys are identical.
var settings = map[string]setter{
	"search.ignore_case":   boolSetter(func(c *Config, b bool) { c.Search.IgnoreCase = b }),
	"search.fixed_strings": boolSetter(func(c *Config, b bool) { c.Search.FixedStrings = b }),
	"search.word_regexp":   boolSetter(func(c *Config, b bool) { c.Search.WordRegexp = b }),
	"search.before":        intSetter(func(c *Config, n int) { c.Search.Before = n }),
	"search.after":         intSetter(func(c *Config, n int) { c.Search.After = n }),
	"search.context": intSetter(func(c *Config, n int) {
		c.Search.Before = n
		c.Search.After = n
	}),
	"search.max_count":    intSetter(func(c *Config, n int) { c.Search.MaxCount = n }),
	"search.binary_files": stringSetter(func(c *Config, s string) { c.Search.BinaryFiles = s }),

	"walk.recursive":       boolSetter(func(c *Config, b bool) { c.Walk.Recursive = b }),
	"walk.follow_symlinks": boolSetter(func(c *Config, b bool) { c.Walk.FollowSymlinks = b }),

	"output.color":        stringSetter(func(c *Config, s string) { c.Output.Color = s }),
	"output.line_numbers": boolSetter(func(c *Config, b bool) { c.Output.LineNumbers = b }),
	"output.byte_offset":  boolSetter(func(c *Config, b bool) { c.Output.ByteOffset = b }),

	"performance.workers":        intSetter(func(c *Config, n int) { c.Performance.Workers = n }),
	"performance.mmap_threshold": sizeSetter(func(c *Config, n int64) { c.Performance.MmapThreshold = n }),
	"performance.debounce_ms":    intSetter(func(c *Config, n int) { c.Performance.DebounceMs = n }),

	// Include replaces inherited patterns; exclusions accumulate
	"include":     listSetter(func(c *Config, l []string) { c.Include = l }),
	"exclude":     listSetter(func(c *Config, l []string) { c.Exclude = mergePatterns(c.Exclude, l) }),
	"exclude_dir": listSetter(func(c *Config, l []string) { c.ExcludeDir = mergePatterns(c.ExcludeDir, l) }),
}

// KnownKeys returns every accepted "section.key" name, sorted
func KnownKeys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// set applies key=v to cfg. Unknown keys are recorded, not rejected, so
// that all of them can be reported together by the Validator.
func (c *Config) set(key string, v interface{}) error {
	apply, ok := settings[key]
	if !ok {
		c.unknown = append(c.unknown, key)
		return nil
	}
	if err := apply(c, v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func boolSetter(fn func(*Config, bool)) setter {
	return func(c *Config, v interface{}) error {
		switch b := v.(type) {
		case bool:
			fn(c, b)
			return nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return fmt.Errorf("expected boolean, got %q", b)
			}
			fn(c, parsed)
			return nil
		}
		return fmt.Errorf("expected boolean, got %T", v)
	}
}

func intSetter(fn func(*Config, int)) setter {
	return func(c *Config, v interface{}) error {
		switch n := v.(type) {
		case int64:
			fn(c, int(n))
			return nil
		case float64:
			if n != float64(int64(n)) {
				return fmt.Errorf("expected integer, got %v", n)
			}
			fn(c, int(n))
			return nil
		}
		return fmt.Errorf("expected integer, got %T", v)
	}
}

func sizeSetter(fn func(*Config, int64)) setter {
	return func(c *Config, v interface{}) error {
		switch n := v.(type) {
		case int64:
			fn(c, n)
			return nil
		case float64:
			fn(c, int64(n))
			return nil
		case string:
			size, err := parseSize(n)
			if err != nil {
				return fmt.Errorf("invalid size %q", n)
			}
			fn(c, size)
			return nil
		}
		return fmt.Errorf("expected size, got %T", v)
	}
}

func stringSetter(fn func(*Config, string)) setter {
	return func(c *Config, v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		fn(c, s)
		return nil
	}
}

func listSetter(fn func(*Config, []string)) setter {
	return func(c *Config, v interface{}) error {
		switch l := v.(type) {
		case []string:
			fn(c, l)
			return nil
		case string:
			fn(c, []string{l})
			return nil
		}
		return fmt.Errorf("expected list of strings, got %T", v)
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
