package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Error types for the lgrep search engine
type ErrorType string

const (
	// Pattern errors
	ErrorTypeInvalidPattern ErrorType = "invalid_pattern"

	// File errors
	ErrorTypeIO ErrorType = "io"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// IoKind classifies a per-file failure
type IoKind string

const (
	IoNotFound         IoKind = "not_found"
	IoPermissionDenied IoKind = "permission_denied"
	IoIsADirectory     IoKind = "is_a_directory"
	IoOther            IoKind = "other"
)

// ErrIsADirectory is the sentinel for directory roots when recursion is disabled
var ErrIsADirectory = errors.New("is a directory")

// PatternError represents a pattern that failed to compile. It is fatal for the run.
type PatternError struct {
	Type       ErrorType
	Pattern    string
	Underlying error
}

// NewPatternError creates a new invalid pattern error
func NewPatternError(pattern string, err error) *PatternError {
	return &PatternError{
		Type:       ErrorTypeInvalidPattern,
		Pattern:    pattern,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *PatternError) Unwrap() error {
	return e.Underlying
}

// FileError represents a per-file failure. The run continues.
type FileError struct {
	Type       ErrorType
	Kind       IoKind
	Path       string
	Operation  string
	Underlying error
}

// NewFileError creates a new file error, classifying the underlying cause
func NewFileError(op, path string, err error) *FileError {
	return &FileError{
		Type:       ErrorTypeIO,
		Kind:       IoKindOf(err),
		Path:       path,
		Operation:  op,
		Underlying: err,
	}
}

// NewIsADirectoryError reports a directory given where a file was expected
func NewIsADirectoryError(path string) *FileError {
	return &FileError{
		Type:       ErrorTypeIO,
		Kind:       IoIsADirectory,
		Path:       path,
		Operation:  "open",
		Underlying: ErrIsADirectory,
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, describe(e.Kind, e.Underlying))
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// describe renders the grep-style short reason for a file failure
func describe(kind IoKind, err error) string {
	switch kind {
	case IoNotFound:
		return "No such file or directory"
	case IoPermissionDenied:
		return "Permission denied"
	case IoIsADirectory:
		return "Is a directory"
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

// IoKindOf classifies an error from the os/fs layer
func IoKindOf(err error) IoKind {
	switch {
	case err == nil:
		return IoOther
	case errors.Is(err, ErrIsADirectory), errors.Is(err, syscall.EISDIR):
		return IoIsADirectory
	case errors.Is(err, fs.ErrNotExist):
		return IoNotFound
	case errors.Is(err, fs.ErrPermission):
		return IoPermissionDenied
	default:
		return IoOther
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config error for field %s: %v", e.Field, e.Underlying)
	}
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrOrNil returns nil when no errors were collected
func (e *MultiError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// IsFatal reports whether err must abort the whole run
func IsFatal(err error) bool {
	var pe *PatternError
	var ce *ConfigError
	return errors.As(err, &pe) || errors.As(err, &ce)
}
