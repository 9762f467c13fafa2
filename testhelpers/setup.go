// Package testhelpers provides shared utilities for testing lgrep
package testhelpers

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// WriteTree creates files under a fresh temporary directory and returns it.
// Keys are slash-separated relative paths.
// Usage:
//
//	root := testhelpers.WriteTree(t, map[string]string{
//	    "a.txt":     "foo\n",
//	    "sub/b.txt": "bar\n",
//	})
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteFiles(t, root, files)
	return root
}

// WriteFiles creates or overwrites files under root
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	// Sorted so parent directories are created predictably
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// WaitFor waits for a condition to become true with timeout
// Usage:
//
//	testhelpers.WaitFor(t, func() bool {
//	    return runs.Load() > 0
//	}, 5*time.Second)
func WaitFor(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Condition not met within %v", timeout)
			return
		}
	}
}

// TestData provides small search corpora
var TestData = struct {
	FooBarFoo string
	GoSimple  string
	Prose     string
}{
	FooBarFoo: "foo\nbar\nfoo\n",

	GoSimple: `package main

import "fmt"

func hello() {
	fmt.Println("Hello, World!")
}

func main() {
	hello()
}
`,

	Prose: `The quick brown fox
jumps over the lazy dog.
A TODO list is never done.
todo: buy milk
`,
}

// GetSampleProject returns a small tree with nested directories
func GetSampleProject() map[string]string {
	return map[string]string{
		"main.go":          TestData.GoSimple,
		"docs/notes.txt":   TestData.Prose,
		"docs/foo.txt":     TestData.FooBarFoo,
		"vendor/dep/x.go":  "package dep // TODO vendored\n",
		"build/output.bin": "TODO\x00binary\n",
		"README.md":        "# Sample\n\nTODO: write docs\n",
	}
}
