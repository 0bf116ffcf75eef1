package datatype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/rmakit/internal/buf"
)

// Scale is a typed scaling constant. The concrete type selects the datatype,
// so a scale can never be read with the wrong width.
type Scale interface {
	Datatype() Datatype
	isScale()
}

// Int32 scales 32-bit signed integers.
type Int32 int32

// Int64 scales signed long (64-bit) integers.
type Int64 int64

// Float32 scales single-precision floats.
type Float32 float32

// Float64 scales double-precision floats.
type Float64 float64

// Complex64 scales interleaved single-precision complex values.
type Complex64 complex64

// Complex128 scales interleaved double-precision complex values.
type Complex128 complex128

func (Int32) Datatype() Datatype      { return AccInt }
func (Int64) Datatype() Datatype      { return AccLong }
func (Float32) Datatype() Datatype    { return AccFloat }
func (Float64) Datatype() Datatype    { return AccDouble }
func (Complex64) Datatype() Datatype  { return AccComplex }
func (Complex128) Datatype() Datatype { return AccDComplex }

func (Int32) isScale()      {}
func (Int64) isScale()      {}
func (Float32) isScale()    {}
func (Float64) isScale()    {}
func (Complex64) isScale()  {}
func (Complex128) isScale() {}

// Identity returns the multiplicative identity for d.
func Identity(d Datatype) (Scale, error) {
	switch d {
	case AccInt:
		return Int32(1), nil
	case AccLong:
		return Int64(1), nil
	case AccFloat:
		return Float32(1), nil
	case AccDouble:
		return Float64(1), nil
	case AccComplex:
		return Complex64(1), nil
	case AccDComplex:
		return Complex128(1), nil
	default:
		return nil, fmt.Errorf("%w (%d)", ErrUnknownDatatype, int(d))
	}
}

// IsIdentity reports whether s is 1 for its datatype (1+0i for complex types).
func IsIdentity(s Scale) bool {
	switch v := s.(type) {
	case Int32:
		return v == 1
	case Int64:
		return v == 1
	case Float32:
		return v == 1
	case Float64:
		return v == 1
	case Complex64:
		return real(v) == 1 && imag(v) == 0
	case Complex128:
		return real(v) == 1 && imag(v) == 0
	default:
		return false
	}
}

// Allocator hands out transport-visible memory for scaled copies. Free
// returns a buffer Apply obtained but could not use.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte) error
}

// Apply returns the first size bytes of src scaled by s.
//
// When s is the identity, or size is zero, the result is src itself and
// nothing is allocated.
// Otherwise the result is a new buffer from alloc which the caller owns.
// src is never modified.
func Apply(src []byte, size int, s Scale, alloc Allocator) ([]byte, error) {
	if s == nil {
		return nil, ErrUnknownDatatype
	}
	dt := s.Datatype()
	width := Width(dt)
	if width == 0 {
		return nil, fmt.Errorf("%w (%d)", ErrUnknownDatatype, int(dt))
	}
	n, err := buf.CheckElems(size, width)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSizeMismatch, dt, err)
	}
	if len(src) < size {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, transfer needs %d", ErrSizeMismatch, len(src), size)
	}

	if n == 0 || IsIdentity(s) {
		return src, nil
	}

	dst, err := alloc.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("datatype: allocate scaled buffer: %w", err)
	}
	if len(dst) < size {
		err := fmt.Errorf("datatype: allocator returned %d bytes, need %d", len(dst), size)
		if ferr := alloc.Free(dst); ferr != nil {
			err = fmt.Errorf("%w (release: %v)", err, ferr)
		}
		return nil, err
	}
	dst = dst[:size]

	switch v := s.(type) {
	case Int32:
		for j := range n {
			off := j * width
			buf.PutI32(dst, off, buf.I32(src, off)*int32(v))
		}
	case Int64:
		for j := range n {
			off := j * width
			buf.PutI64(dst, off, buf.I64(src, off)*int64(v))
		}
	case Float32:
		for j := range n {
			off := j * width
			buf.PutF32(dst, off, buf.F32(src, off)*float32(v))
		}
	case Float64:
		for j := range n {
			off := j * width
			buf.PutF64(dst, off, buf.F64(src, off)*float64(v))
		}
	case Complex64:
		c, d := real(v), imag(v)
		for j := range n {
			off := j * width
			a, b := buf.F32(src, off), buf.F32(src, off+4)
			buf.PutF32(dst, off, a*c-b*d)
			buf.PutF32(dst, off+4, a*d+b*c)
		}
	case Complex128:
		c, d := real(v), imag(v)
		for j := range n {
			off := j * width
			a, b := buf.F64(src, off), buf.F64(src, off+8)
			buf.PutF64(dst, off, a*c-b*d)
			buf.PutF64(dst, off+8, a*d+b*c)
		}
	}

	return dst, nil
}

// ParseScale parses text as a scale of type d. Complex scales accept "re,im",
// Go complex literals such as "1+1i", or a bare real part.
func ParseScale(d Datatype, text string) (Scale, error) {
	text = strings.TrimSpace(text)
	switch d {
	case AccInt:
		v, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadScale, err)
		}
		return Int32(v), nil
	case AccLong:
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadScale, err)
		}
		return Int64(v), nil
	case AccFloat:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadScale, err)
		}
		return Float32(v), nil
	case AccDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadScale, err)
		}
		return Float64(v), nil
	case AccComplex:
		v, err := parseComplex(text, 64)
		if err != nil {
			return nil, err
		}
		return Complex64(v), nil
	case AccDComplex:
		v, err := parseComplex(text, 128)
		if err != nil {
			return nil, err
		}
		return Complex128(v), nil
	default:
		return nil, fmt.Errorf("%w (%d)", ErrUnknownDatatype, int(d))
	}
}

func parseComplex(text string, bitSize int) (complex128, error) {
	if re, im, ok := strings.Cut(text, ","); ok {
		floatBits := bitSize / 2
		r, err := strconv.ParseFloat(strings.TrimSpace(re), floatBits)
		if err != nil {
			return 0, fmt.Errorf("%w: real part: %v", ErrBadScale, err)
		}
		i, err := strconv.ParseFloat(strings.TrimSpace(im), floatBits)
		if err != nil {
			return 0, fmt.Errorf("%w: imaginary part: %v", ErrBadScale, err)
		}
		return complex(r, i), nil
	}
	v, err := strconv.ParseComplex(text, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadScale, err)
	}
	return v, nil
}
