// Package buf contains native-endian element accessors for raw transfer buffers.
//
// Transfer buffers hold elements in the host's in-memory layout, so every
// accessor here uses binary.NativeEndian. Offsets are byte offsets; callers
// are expected to bounds-check with Has or Slice first.
package buf

import (
	"encoding/binary"
	"math"
)

// I32 reads the native-endian int32 at b[off:].
func I32(b []byte, off int) int32 {
	return int32(binary.NativeEndian.Uint32(b[off:]))
}

// PutI32 writes v at b[off:].
func PutI32(b []byte, off int, v int32) {
	binary.NativeEndian.PutUint32(b[off:], uint32(v))
}

// I64 reads the native-endian int64 at b[off:].
func I64(b []byte, off int) int64 {
	return int64(binary.NativeEndian.Uint64(b[off:]))
}

// PutI64 writes v at b[off:].
func PutI64(b []byte, off int, v int64) {
	binary.NativeEndian.PutUint64(b[off:], uint64(v))
}

// F32 reads the native-endian float32 at b[off:].
func F32(b []byte, off int) float32 {
	return math.Float32frombits(binary.NativeEndian.Uint32(b[off:]))
}

// PutF32 writes v at b[off:].
func PutF32(b []byte, off int, v float32) {
	binary.NativeEndian.PutUint32(b[off:], math.Float32bits(v))
}

// F64 reads the native-endian float64 at b[off:].
func F64(b []byte, off int) float64 {
	return math.Float64frombits(binary.NativeEndian.Uint64(b[off:]))
}

// PutF64 writes v at b[off:].
func PutF64(b []byte, off int, v float64) {
	binary.NativeEndian.PutUint64(b[off:], math.Float64bits(v))
}

// C64 reads an interleaved (real, imag) float32 pair at b[off:].
func C64(b []byte, off int) complex64 {
	return complex(F32(b, off), F32(b, off+4))
}

// PutC64 writes v as an interleaved (real, imag) float32 pair.
func PutC64(b []byte, off int, v complex64) {
	PutF32(b, off, real(v))
	PutF32(b, off+4, imag(v))
}

// C128 reads an interleaved (real, imag) float64 pair at b[off:].
func C128(b []byte, off int) complex128 {
	return complex(F64(b, off), F64(b, off+8))
}

// PutC128 writes v as an interleaved (real, imag) float64 pair.
func PutC128(b []byte, off int, v complex128) {
	PutF64(b, off, real(v))
	PutF64(b, off+8, imag(v))
}
