package local

import "errors"

var (
	// ErrAborted indicates a barrier broken by an abort on some rank.
	ErrAborted = errors.New("local: group aborted")

	// ErrAllocLimit indicates a rank reached its live buffer limit.
	ErrAllocLimit = errors.New("local: live buffer limit reached")

	// ErrUnknownBuffer indicates Free of memory that is not a live buffer of
	// this rank.
	ErrUnknownBuffer = errors.New("local: buffer not allocated by this rank")
)
