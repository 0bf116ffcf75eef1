package rma

import "iter"

// Transport is the one-sided transport underneath this layer.
type Transport interface {
	// Rank returns this process's rank in the group.
	Rank() int

	// Size returns the number of ranks in the group.
	Size() int

	// Barrier blocks until every rank in the group has entered it.
	Barrier() error

	// Alloc returns size bytes usable as the source or target of one-sided
	// operations.
	Alloc(size int) ([]byte, error)

	// Free releases memory returned by Alloc.
	Free(b []byte) error

	// Abort terminates the whole group with code. It should not return.
	Abort(code int)
}

// Region is an opaque handle to a live registered region, as seen by the
// local rank.
type Region interface {
	// Lock acquires exclusive direct access to the local rank's part of the
	// region. Transport traffic into that memory waits until Unlock.
	Lock() error
	Unlock() error

	// Flush completes every outstanding operation this rank issued to peer.
	Flush(peer int) error

	// FlushAll completes every outstanding operation this rank issued.
	FlushAll() error

	// Sync makes completed remote writes to local memory visible to direct
	// access, and local direct writes visible to the transport.
	Sync() error
}

// Registry maps local address ranges to live registered regions.
type Registry interface {
	// Lookup returns the region whose rank-owned memory contains addr.
	Lookup(addr uintptr, rank int) (Region, bool)

	// Regions yields live regions in registration order.
	Regions() iter.Seq[Region]

	// Progress advances outstanding asynchronous work without blocking.
	Progress()
}

// AsyncConfigurer reconfigures asynchronous progress on regions after a
// global fence. Deployments without a helper-process transport leave it nil.
type AsyncConfigurer interface {
	// ResetLocal refreshes only the local async state; called once per pass
	// with the first live region.
	ResetLocal(r Region) error

	// Update applies mode to r and starts the remote exchange phase.
	Update(r Region, mode AsyncMode) error
}

// AsyncDumper is implemented by an AsyncConfigurer that can write out the
// async settings in force on a region.
type AsyncDumper interface {
	DumpAsync(r Region, name string) error
}

// GroupRanker is implemented by regions that know the caller's rank within
// the region's group. Regions without it are treated as spanning the world.
type GroupRanker interface {
	Rank() int
}
