//go:build !(linux || freebsd || netbsd || openbsd || dragonfly || darwin)

package dirty

// flushRanges is a no-op where segments are plain heap memory.
func (t *Tracker) flushRanges(_ []byte, _ []Range) error {
	return nil
}
