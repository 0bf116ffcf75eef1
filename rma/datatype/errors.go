package datatype

import "errors"

var (
	// ErrUnknownDatatype indicates a tag or Scale outside the six supported types.
	ErrUnknownDatatype = errors.New("datatype: unknown data type")

	// ErrSizeMismatch indicates a transfer size that is not a whole number of elements,
	// or a buffer shorter than the transfer size.
	ErrSizeMismatch = errors.New("datatype: transfer size is not a multiple of the datatype size")

	// ErrBadScale indicates scale text that does not parse for the requested type.
	ErrBadScale = errors.New("datatype: malformed scale value")
)
