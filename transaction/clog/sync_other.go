//go:build !linux

package clog

import "os"

// syncData flushes file to stable storage
// fdatasync is not available, so metadata is flushed as well.
func syncData(fd *os.File) error {
	return fd.Sync()
}
