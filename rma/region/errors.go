package region

import "errors"

var (
	// ErrBadRank indicates a rank outside the world.
	ErrBadRank = errors.New("region: rank out of range")

	// ErrOutOfRange indicates an operation that does not fit in the target segment.
	ErrOutOfRange = errors.New("region: access outside segment")

	// ErrFreed indicates use of a window after World.Free.
	ErrFreed = errors.New("region: window has been freed")

	// ErrPathCount indicates World.Map was given a path count different from the world size.
	ErrPathCount = errors.New("region: need one backing file per rank")

	// ErrNotLocked indicates Unlock without a matching Lock.
	ErrNotLocked = errors.New("region: segment is not locked")
)
