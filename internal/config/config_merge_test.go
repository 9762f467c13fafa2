package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_NoFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, home, KDLFileName, `
search {
    ignore_case true
    context 1
}
include "*.go"
exclude "*.log"
exclude_dir "node_modules"
`)
	writeConfig(t, project, KDLFileName, `
search {
    after 4
}
include "*.md"
exclude "*.tmp" "*.log"
`)

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.True(t, cfg.Search.IgnoreCase, "global value survives")
	assert.Equal(t, 1, cfg.Search.Before)
	assert.Equal(t, 4, cfg.Search.After, "project value wins")

	assert.Equal(t, []string{"*.md"}, cfg.Include, "include replaces")
	assert.Equal(t, []string{"*.log", "*.tmp"}, cfg.Exclude, "exclude accumulates without duplicates")
	assert.Equal(t, []string{"node_modules"}, cfg.ExcludeDir)
}

func TestLoad_TOMLProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeConfig(t, project, TOMLFileName, "[walk]\nrecursive = true\n")

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.True(t, cfg.Walk.Recursive)
}

func TestLoad_KDLPreferredOverTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeConfig(t, project, KDLFileName, "output {\n    color \"never\"\n}\n")
	writeConfig(t, project, TOMLFileName, "[output]\ncolor = \"always\"\n")

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestLoad_HomeIsProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, KDLFileName, "exclude \"*.bak\"\n")

	cfg, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.bak"}, cfg.Exclude, "home config applied once")
}

func TestLoad_InvalidProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeConfig(t, project, KDLFileName, "search {")

	_, err := Load(project)
	assert.Error(t, err)
}

func TestDeduplicatePatterns(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, DeduplicatePatterns([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, DeduplicatePatterns(nil))
}

func TestClone_Independent(t *testing.T) {
	cfg := Default()
	cfg.Include = []string{"*.go"}

	cp := cfg.clone()
	cp.Include[0] = "*.rs"
	cp.Search.Before = 9

	assert.Equal(t, "*.go", cfg.Include[0])
	assert.Zero(t, cfg.Search.Before)
}
