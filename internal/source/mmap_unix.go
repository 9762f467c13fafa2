//go:build unix

package source

import (
	"errors"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

var errTooLarge = errors.New("file too large to map")

func mmapFile(f *os.File, size int64) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("cannot map empty file")
	}
	if size > math.MaxInt {
		return nil, errTooLarge
	}
	return unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
}

func munmap(data []byte) error {
	return unix.Munmap(data)
}
