package walker

import (
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// realPathID identifies a directory by a hash of its resolved path where no
// inode identity is available
func realPathID(path string) (fileID, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileID{}, false
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}
	return fileID{ino: xxhash.Sum64String(resolved)}, true
}
