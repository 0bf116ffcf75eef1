package shmem

import "errors"

var (
	// ErrZeroSize indicates a request for an empty mapping.
	ErrZeroSize = errors.New("shmem: size must be positive")

	// ErrNotMapped indicates Free was handed memory this package did not map,
	// or memory that was already released.
	ErrNotMapped = errors.New("shmem: buffer is not a live mapping")
)
