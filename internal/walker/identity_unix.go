//go:build unix

package walker

import (
	"os"

	"golang.org/x/sys/unix"
)

// identity returns the (device, inode) pair of a directory
func identity(path string, info os.FileInfo) (fileID, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return realPathID(path)
	}
	return fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}
