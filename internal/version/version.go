// Package version reports which lgrep build is running. Release builds stamp
// Commit and BuildDate with -ldflags; other builds fall back to the VCS data
// the Go toolchain embeds in the binary.
package version

import (
	"runtime/debug"
	"strings"
	"sync"
)

var (
	// Version is the release number printed by --version
	Version = "0.1.0"

	// Commit and BuildDate are set with -ldflags "-X ...version.Commit=..."
	Commit    = ""
	BuildDate = ""
)

// Details is the resolved build description
type Details struct {
	Version   string
	Commit    string // short revision, "" when unknown
	Modified  bool   // built from a dirty work tree
	BuildDate string // RFC 3339, "" when unknown
	GoVersion string
}

var (
	details     Details
	detailsOnce sync.Once
)

// Get resolves build details once per process
func Get() Details {
	detailsOnce.Do(func() {
		info, _ := debug.ReadBuildInfo()
		details = resolve(info)
	})
	return details
}

// resolve prefers stamped values and fills gaps from build info, which is nil
// for binaries built without module support
func resolve(info *debug.BuildInfo) Details {
	d := Details{Version: Version, Commit: Commit, BuildDate: BuildDate}
	if info == nil {
		return d
	}
	d.GoVersion = info.GoVersion

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if d.Commit == "" {
				d.Commit = s.Value
			}
		case "vcs.time":
			if d.BuildDate == "" {
				d.BuildDate = s.Value
			}
		case "vcs.modified":
			d.Modified = s.Value == "true"
		}
	}
	if len(d.Commit) > 12 {
		d.Commit = d.Commit[:12]
	}
	return d
}

// String renders the --version line, e.g.
// "lgrep 0.1.0 (commit 1a2b3c4d5e6f-dirty, 2026-01-02T03:04:05Z, go1.24.2)"
func (d Details) String() string {
	var extra []string
	if d.Commit != "" {
		commit := "commit " + d.Commit
		if d.Modified {
			commit += "-dirty"
		}
		extra = append(extra, commit)
	}
	if d.BuildDate != "" {
		extra = append(extra, d.BuildDate)
	}
	if d.GoVersion != "" {
		extra = append(extra, d.GoVersion)
	}

	out := "lgrep " + d.Version
	if len(extra) > 0 {
		out += " (" + strings.Join(extra, ", ") + ")"
	}
	return out
}

// FullInfo returns the --version line for this binary
func FullInfo() string {
	return Get().String()
}
