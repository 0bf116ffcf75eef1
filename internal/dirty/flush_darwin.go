//go:build darwin

package dirty

import (
	"golang.org/x/sys/unix"
)

// flushRanges syncs the whole mapping.
//
// On macOS, msync() requires the address to match the original mmap() address,
// so sub-slices cannot be passed. The kernel only writes dirty pages anyway.
func (t *Tracker) flushRanges(data []byte, _ []Range) error {
	return unix.Msync(data, unix.MS_SYNC)
}
