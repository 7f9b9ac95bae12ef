//go:build unix

package clog

import (
	"golang.org/x/sys/unix"
)

// checkReadWrite checks whether the file is readable and writable
func checkReadWrite(path string) error {
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return ErrFileCannotRW
	}
	return nil
}
