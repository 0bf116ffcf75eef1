package datatype

import (
	"errors"
	"testing"

	"github.com/joshuapare/rmakit/internal/buf"
)

// countingAlloc hands out heap buffers and counts them. short, when set,
// makes every buffer that many bytes too small.
type countingAlloc struct {
	n     int
	freed int
	short int
	err   error
}

func (a *countingAlloc) Alloc(size int) ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.n++
	return make([]byte, max(size-a.short, 0)), nil
}

func (a *countingAlloc) Free([]byte) error {
	a.freed++
	return nil
}

var errNoMem = errors.New("no memory")

func int32s(vals ...int32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		buf.PutI32(b, 4*i, v)
	}
	return b
}

func int64s(vals ...int64) []byte {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		buf.PutI64(b, 8*i, v)
	}
	return b
}

func float32s(vals ...float32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		buf.PutF32(b, 4*i, v)
	}
	return b
}

func float64s(vals ...float64) []byte {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		buf.PutF64(b, 8*i, v)
	}
	return b
}

func complex64s(vals ...complex64) []byte {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		buf.PutC64(b, 8*i, v)
	}
	return b
}

func complex128s(vals ...complex128) []byte {
	b := make([]byte, 16*len(vals))
	for i, v := range vals {
		buf.PutC128(b, 16*i, v)
	}
	return b
}

func cloneBytes(t testing.TB, b []byte) []byte {
	t.Helper()
	return append([]byte(nil), b...)
}
