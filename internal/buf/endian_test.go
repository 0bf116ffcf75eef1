package buf

import "testing"

func TestNativeAccessorsRoundTrip(t *testing.T) {
	b := make([]byte, 32)

	PutI32(b, 0, -7)
	if got := I32(b, 0); got != -7 {
		t.Fatalf("I32 = %d, want -7", got)
	}
	PutI64(b, 8, -1<<40)
	if got := I64(b, 8); got != -1<<40 {
		t.Fatalf("I64 = %d, want %d", got, int64(-1<<40))
	}
	PutF32(b, 4, 1.5)
	if got := F32(b, 4); got != 1.5 {
		t.Fatalf("F32 = %v, want 1.5", got)
	}
	PutF64(b, 16, -2.25)
	if got := F64(b, 16); got != -2.25 {
		t.Fatalf("F64 = %v, want -2.25", got)
	}
}

func TestComplexLayoutIsInterleaved(t *testing.T) {
	b := make([]byte, 24)

	PutC64(b, 0, complex(2, 3))
	if F32(b, 0) != 2 || F32(b, 4) != 3 {
		t.Fatalf("complex64 not stored as (re, im): %v %v", F32(b, 0), F32(b, 4))
	}
	if got := C64(b, 0); got != complex(2, 3) {
		t.Fatalf("C64 = %v, want (2+3i)", got)
	}

	PutC128(b, 8, complex(-1, 5))
	if F64(b, 8) != -1 || F64(b, 16) != 5 {
		t.Fatalf("complex128 not stored as (re, im): %v %v", F64(b, 8), F64(b, 16))
	}
	if got := C128(b, 8); got != complex(-1, 5) {
		t.Fatalf("C128 = %v, want (-1+5i)", got)
	}
}
