// Package local is an rma.Transport for groups of ranks that live in one OS
// process, one goroutine per rank.
//
// Private buffers come from anonymous shared mappings (internal/shmem), so
// they are usable as the source or target of one-sided operations exactly
// like region memory. Each rank counts its live buffers, which lets callers
// check that every buffer was released exactly once.
//
// Barrier is a reusable rendezvous of all ranks. Abort breaks it: ranks
// waiting in or later entering a barrier get ErrAborted instead of hanging.
package local
