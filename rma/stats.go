package rma

import "sync/atomic"

// Stats counts staging and synchronization activity on a Context.
type Stats struct {
	PutBatches uint64
	PutMoved   uint64
	GetBatches uint64
	GetMoved   uint64
	AccBatches uint64
	AccMoved   uint64
	Fences     uint64
	AllFences  uint64
	Barriers   uint64
}

type counters struct {
	putBatches atomic.Uint64
	putMoved   atomic.Uint64
	getBatches atomic.Uint64
	getMoved   atomic.Uint64
	accBatches atomic.Uint64
	accMoved   atomic.Uint64
	fences     atomic.Uint64
	allFences  atomic.Uint64
	barriers   atomic.Uint64
}

// Stats returns a snapshot of the counters.
func (c *Context) Stats() Stats {
	return Stats{
		PutBatches: c.counters.putBatches.Load(),
		PutMoved:   c.counters.putMoved.Load(),
		GetBatches: c.counters.getBatches.Load(),
		GetMoved:   c.counters.getMoved.Load(),
		AccBatches: c.counters.accBatches.Load(),
		AccMoved:   c.counters.accMoved.Load(),
		Fences:     c.counters.fences.Load(),
		AllFences:  c.counters.allFences.Load(),
		Barriers:   c.counters.barriers.Load(),
	}
}
