//go:build linux || freebsd || netbsd || openbsd || dragonfly

package dirty

import (
	"golang.org/x/sys/unix"
)

// flushRanges msyncs each coalesced range.
//
// msync() accepts page-aligned sub-slices of the mapping here.
func (t *Tracker) flushRanges(data []byte, ranges []Range) error {
	for _, r := range ranges {
		start := int(r.Off)
		end := int(r.Off + r.Len)
		if end > len(data) {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}
