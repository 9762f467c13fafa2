package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestPatternError(t *testing.T) {
	underlying := errors.New("missing closing ]")
	err := NewPatternError("[invalid", underlying)

	if err.Type != ErrorTypeInvalidPattern {
		t.Errorf("Expected Type to be ErrorTypeInvalidPattern, got %v", err.Type)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := `invalid pattern "[invalid": missing closing ]`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	if !IsFatal(fmt.Errorf("compile: %w", err)) {
		t.Errorf("Expected wrapped pattern error to be fatal")
	}
}

func TestFileError_NotFound(t *testing.T) {
	_, openErr := os.Open(filepath.Join(t.TempDir(), "missing.txt"))
	err := NewFileError("open", "missing.txt", openErr)

	if err.Kind != IoNotFound {
		t.Errorf("Expected Kind to be IoNotFound, got %v", err.Kind)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected error to unwrap to fs.ErrNotExist")
	}

	expectedMsg := "missing.txt: No such file or directory"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	if IsFatal(err) {
		t.Errorf("Expected file error to be non-fatal")
	}
}

func TestFileError_IsADirectory(t *testing.T) {
	err := NewIsADirectoryError("src")

	if err.Kind != IoIsADirectory {
		t.Errorf("Expected Kind to be IoIsADirectory, got %v", err.Kind)
	}

	if !errors.Is(err, ErrIsADirectory) {
		t.Errorf("Expected error to unwrap to ErrIsADirectory")
	}

	if err.Error() != "src: Is a directory" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestIoKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want IoKind
	}{
		{"nil", nil, IoOther},
		{"not exist", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, IoNotFound},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, IoPermissionDenied},
		{"directory", ErrIsADirectory, IoIsADirectory},
		{"other", errors.New("disk on fire"), IoOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IoKindOf(tt.err); got != tt.want {
				t.Errorf("IoKindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("must not be negative")
	err := NewConfigError("before", "-1", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "config error for field before (value -1): must not be negative"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")

	multi := NewMultiError([]error{err1, nil, err2})
	if len(multi.Errors) != 2 {
		t.Fatalf("Expected 2 errors after filtering nil, got %d", len(multi.Errors))
	}

	if !errors.Is(multi, err2) {
		t.Errorf("Expected multi error to contain err2")
	}

	if NewMultiError(nil).ErrOrNil() != nil {
		t.Errorf("Expected empty multi error to collapse to nil")
	}

	single := NewMultiError([]error{err1})
	if single.Error() != "error 1" {
		t.Errorf("Expected single error message, got %q", single.Error())
	}
}
