//go:build !unix

package clog

import "os"

// checkReadWrite checks whether the file is readable and writable
// access(2) is not available, so the file is opened once with read-write mode.
func checkReadWrite(path string) error {
	fd, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return ErrFileCannotRW
	}
	return fd.Close()
}
