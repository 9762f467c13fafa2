//go:build !unix

package walker

import "os"

func identity(path string, _ os.FileInfo) (fileID, bool) {
	return realPathID(path)
}
