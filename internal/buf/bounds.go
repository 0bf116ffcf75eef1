package buf

import (
	"fmt"
	"math"
	"unsafe"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckElems validates that a transfer of size bytes holds a whole number of
// width-byte elements and returns the element count.
func CheckElems(size, width int) (int, error) {
	if width <= 0 {
		return 0, fmt.Errorf("invalid element width: %d", width)
	}
	if size < 0 {
		return 0, fmt.Errorf("negative size: %d", size)
	}
	if size%width != 0 {
		return 0, fmt.Errorf("size %d is not a multiple of element width %d", size, width)
	}
	return size / width, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

// Addr returns the address of the first byte of b, or 0 for an empty slice.
func Addr(b []byte) uintptr {
	if cap(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Same reports whether a and b start at the same byte.
func Same(a, b []byte) bool {
	return unsafe.SliceData(a) == unsafe.SliceData(b)
}

// Contains reports whether addr falls inside b.
func Contains(b []byte, addr uintptr) bool {
	base := Addr(b)
	if base == 0 {
		return false
	}
	return addr >= base && addr < base+uintptr(len(b))
}
