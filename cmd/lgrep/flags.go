package main

import "github.com/urfave/cli/v2"

// Flag names shared between the definitions and option resolution
const (
	flagRegexp       = "regexp"
	flagFile         = "file"
	flagFixed        = "fixed-strings"
	flagIgnoreCase   = "ignore-case"
	flagWord         = "word-regexp"
	flagLine         = "line-regexp"
	flagInvert       = "invert-match"
	flagRecursive    = "recursive"
	flagDeref        = "dereference-recursive"
	flagCount        = "count"
	flagFilesWith    = "files-with-matches"
	flagFilesWithout = "files-without-match"
	flagQuiet        = "quiet"
	flagNoMessages   = "no-messages"
	flagMaxCount     = "max-count"
	flagAfter        = "after-context"
	flagBefore       = "before-context"
	flagContext      = "context"
	flagLineNumber   = "line-number"
	flagWithFilename = "with-filename"
	flagNoFilename   = "no-filename"
	flagByteOffset   = "byte-offset"
	flagOnlyMatching = "only-matching"
	flagNullData     = "null-data"
	flagText         = "text"
	flagNoBinary     = "no-binary"
	flagBinaryFiles  = "binary-files"
	flagInclude      = "include"
	flagExclude      = "exclude"
	flagExcludeDir   = "exclude-dir"
	flagColor        = "color"
	flagThreads      = "threads"
	flagConfig       = "config"
	flagWatch        = "watch"
	flagDebug        = "debug"
)

func searchFlags() []cli.Flag {
	return []cli.Flag{
		// Pattern selection
		&cli.StringSliceFlag{Name: flagRegexp, Aliases: []string{"e"}, Usage: "use `PATTERN` for matching (repeatable)"},
		&cli.StringSliceFlag{Name: flagFile, Aliases: []string{"f"}, Usage: "take patterns from `FILE`, one per line"},
		&cli.BoolFlag{Name: flagFixed, Aliases: []string{"F"}, Usage: "PATTERNS are strings"},
		&cli.BoolFlag{Name: flagIgnoreCase, Aliases: []string{"i"}, Usage: "ignore case distinctions"},
		&cli.BoolFlag{Name: flagWord, Aliases: []string{"w"}, Usage: "match only whole words"},
		&cli.BoolFlag{Name: flagLine, Aliases: []string{"x"}, Usage: "match only whole lines"},
		&cli.BoolFlag{Name: flagInvert, Aliases: []string{"v"}, Usage: "select non-matching lines"},

		// File selection
		&cli.BoolFlag{Name: flagRecursive, Aliases: []string{"r"}, Usage: "search directories recursively"},
		&cli.BoolFlag{Name: flagDeref, Aliases: []string{"R"}, Usage: "likewise, following all symlinks"},
		&cli.StringSliceFlag{Name: flagInclude, Usage: "search only files that match `GLOB`"},
		&cli.StringSliceFlag{Name: flagExclude, Usage: "skip files that match `GLOB`"},
		&cli.StringSliceFlag{Name: flagExcludeDir, Usage: "skip directories that match `GLOB`"},
		&cli.BoolFlag{Name: flagText, Aliases: []string{"a"}, Usage: "process binary files as text"},
		&cli.BoolFlag{Name: flagNoBinary, Aliases: []string{"I"}, Usage: "treat binary files as non-matching"},
		&cli.StringFlag{Name: flagBinaryFiles, Usage: "binary file handling: binary, text or without-match", DefaultText: "binary"},
		&cli.BoolFlag{Name: flagNullData, Aliases: []string{"z"}, Usage: "lines are terminated by NUL, not newline"},

		// Output control
		&cli.BoolFlag{Name: flagCount, Aliases: []string{"c"}, Usage: "print only a count of selected lines per file"},
		&cli.BoolFlag{Name: flagFilesWith, Aliases: []string{"l"}, Usage: "print only names of files with selected lines"},
		&cli.BoolFlag{Name: flagFilesWithout, Aliases: []string{"L"}, Usage: "print only names of files with no selected lines"},
		&cli.BoolFlag{Name: flagQuiet, Aliases: []string{"q", "silent"}, Usage: "suppress all normal output"},
		&cli.BoolFlag{Name: flagNoMessages, Aliases: []string{"s"}, Usage: "suppress error messages about files"},
		&cli.IntFlag{Name: flagMaxCount, Aliases: []string{"m"}, Usage: "stop after `NUM` selected lines per file"},
		&cli.BoolFlag{Name: flagOnlyMatching, Aliases: []string{"o"}, Usage: "show only nonempty parts of lines that match"},
		&cli.BoolFlag{Name: flagLineNumber, Aliases: []string{"n"}, Usage: "print line number with output lines"},
		&cli.BoolFlag{Name: flagWithFilename, Aliases: []string{"H"}, Usage: "print file name with output lines"},
		&cli.BoolFlag{Name: flagNoFilename, Aliases: []string{"h"}, Usage: "suppress the file name prefix on output"},
		&cli.BoolFlag{Name: flagByteOffset, Aliases: []string{"b"}, Usage: "print the byte offset with output lines"},
		&cli.StringFlag{Name: flagColor, Aliases: []string{"colour"}, Usage: "use markers to highlight matches: auto, always or never"},

		// Context control
		&cli.IntFlag{Name: flagAfter, Aliases: []string{"A"}, Usage: "print `NUM` lines of trailing context"},
		&cli.IntFlag{Name: flagBefore, Aliases: []string{"B"}, Usage: "print `NUM` lines of leading context"},
		&cli.IntFlag{Name: flagContext, Aliases: []string{"C"}, Usage: "print `NUM` lines of output context"},

		// Runtime
		&cli.IntFlag{Name: flagThreads, Aliases: []string{"j"}, Usage: "number of worker goroutines (0 = one per CPU)"},
		&cli.StringFlag{Name: flagConfig, Usage: "load settings from `FILE` (.kdl or .toml)"},
		&cli.BoolFlag{Name: flagWatch, Usage: "re-run the search whenever files change"},
		&cli.BoolFlag{Name: flagDebug, Usage: "write debug logs to standard error"},
	}
}
