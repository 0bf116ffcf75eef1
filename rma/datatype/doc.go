// Package datatype implements the arithmetic side of accumulate operations.
//
// # Datatypes
//
// Six element types are supported, matching the accumulate tags of the RMA
// API:
//
//	Tag           Scale payload   Width   Layout
//	AccInt        Int32           4       int32
//	AccLong       Int64           8       int64
//	AccFloat      Float32         4       float32
//	AccDouble     Float64         8       float64
//	AccComplex    Complex64       8       interleaved (re, im) float32
//	AccDComplex   Complex128      16      interleaved (re, im) float64
//
// Elements are stored in the host's native byte order.
//
// # Scaling
//
// Apply produces the source operand of an accumulate: every element of the
// source buffer multiplied by a typed Scale. A Scale equal to the datatype's
// multiplicative identity returns the source slice itself, which callers rely
// on to tell scaled buffers from untouched ones by identity.
//
//	scaled, err := datatype.Apply(src, len(src), datatype.Float64(2), alloc)
//	if err != nil {
//	    return err
//	}
//	if &scaled[0] != &src[0] {
//	    defer alloc.Free(scaled)
//	}
//
// # Combining
//
// Accumulate adds a source buffer into a destination element-wise. The region
// window uses it to complete accumulate operations.
package datatype
