package rma

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMemory indicates the transport could not provide a private or scaled buffer.
	ErrNoMemory = errors.New("rma: private buffer allocation failed")

	// ErrShortBuffer indicates a batch entry shorter than the transfer size.
	ErrShortBuffer = errors.New("rma: buffer shorter than transfer size")

	// ErrBatchMismatch indicates original and staged batches of different lengths.
	ErrBatchMismatch = errors.New("rma: staged batch does not match original batch")

	// ErrRegionMissing indicates a staged get destination whose region vanished before finish.
	ErrRegionMissing = errors.New("rma: region of staged buffer not found")

	// ErrBadPeer indicates a fence target outside the group.
	ErrBadPeer = errors.New("rma: peer rank out of range")
)

// Abort codes passed to Transport.Abort.
const (
	CodeNoMemory    = 10
	CodeDatatype    = 11
	CodeConsistency = 12
	CodeTransport   = 13
	CodeUsage       = 14
)

// AbortError describes a fatal failure. Context panics with it if
// Transport.Abort returns, which test transports rely on.
type AbortError struct {
	Rank int
	Code int
	Err  error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("rank %d aborted with code %d: %v", e.Rank, e.Code, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }
