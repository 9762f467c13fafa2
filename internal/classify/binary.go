package classify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/standardbeagle/lgrep/internal/types"
)

// BinaryMode controls how files containing NUL bytes are handled
type BinaryMode uint8

const (
	// BinaryAuto reports binary files as skipped with a notice
	BinaryAuto BinaryMode = iota
	// BinaryForceText scans every file as text (-a)
	BinaryForceText
	// BinarySkip silently treats binary files as non-matching (-I)
	BinarySkip
)

// String returns the --binary-files spelling of the mode
func (m BinaryMode) String() string {
	switch m {
	case BinaryForceText:
		return "text"
	case BinarySkip:
		return "without-match"
	default:
		return "binary"
	}
}

// ParseBinaryMode parses a --binary-files value
func ParseBinaryMode(s string) (BinaryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "binary", "auto":
		return BinaryAuto, nil
	case "text":
		return BinaryForceText, nil
	case "without-match", "skip":
		return BinarySkip, nil
	}
	return BinaryAuto, fmt.Errorf("invalid binary-files type %q (want binary, text or without-match)", s)
}

// IsBinary reports whether content should be treated as binary under mode.
// Only the first types.BinarySampleBytes are inspected for a NUL byte.
func IsBinary(sample []byte, mode BinaryMode) bool {
	if mode == BinaryForceText {
		return false
	}
	if len(sample) > types.BinarySampleBytes {
		sample = sample[:types.BinarySampleBytes]
	}
	return bytes.IndexByte(sample, 0) >= 0
}
