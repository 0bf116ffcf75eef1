package datatype

import (
	"fmt"

	"github.com/joshuapare/rmakit/internal/buf"
)

// Accumulate adds the first size bytes of src into dst element-wise.
func Accumulate(dst, src []byte, size int, d Datatype) error {
	width := Width(d)
	if width == 0 {
		return fmt.Errorf("%w (%d)", ErrUnknownDatatype, int(d))
	}
	n, err := buf.CheckElems(size, width)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSizeMismatch, d, err)
	}
	if len(src) < size || len(dst) < size {
		return fmt.Errorf("%w: buffers hold %d/%d bytes, transfer needs %d", ErrSizeMismatch, len(dst), len(src), size)
	}

	for j := range n {
		off := j * width
		switch d {
		case AccInt:
			buf.PutI32(dst, off, buf.I32(dst, off)+buf.I32(src, off))
		case AccLong:
			buf.PutI64(dst, off, buf.I64(dst, off)+buf.I64(src, off))
		case AccFloat:
			buf.PutF32(dst, off, buf.F32(dst, off)+buf.F32(src, off))
		case AccDouble:
			buf.PutF64(dst, off, buf.F64(dst, off)+buf.F64(src, off))
		case AccComplex:
			buf.PutC64(dst, off, buf.C64(dst, off)+buf.C64(src, off))
		case AccDComplex:
			buf.PutC128(dst, off, buf.C128(dst, off)+buf.C128(src, off))
		}
	}
	return nil
}
