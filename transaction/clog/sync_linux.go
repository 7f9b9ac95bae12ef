//go:build linux

package clog

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncData flushes file contents (not metadata) to stable storage
func syncData(fd *os.File) error {
	return unix.Fdatasync(int(fd.Fd()))
}
