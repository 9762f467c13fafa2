//go:build !unix

package source

import (
	"errors"
	"os"
)

var errMmapUnsupported = errors.New("memory mapping not supported on this platform")

func mmapFile(*os.File, int64) ([]byte, error) {
	return nil, errMmapUnsupported
}

func munmap([]byte) error {
	return nil
}
