package region

import (
	"iter"

	"github.com/joshuapare/rmakit/internal/buf"
	"github.com/joshuapare/rmakit/internal/logger"
	"github.com/joshuapare/rmakit/rma"
)

var _ rma.Registry = (*Registry)(nil)

// Registry is one rank's rma.Registry over a World.
type Registry struct {
	world *World
	rank  int
}

// Rank returns the rank the registry acts for.
func (r *Registry) Rank() int { return r.rank }

// Lookup returns the view of the window whose segment for rank contains
// addr.
func (r *Registry) Lookup(addr uintptr, rank int) (rma.Region, bool) {
	if rank < 0 || rank >= r.world.size {
		return nil, false
	}
	for _, win := range r.world.Windows() {
		if buf.Contains(win.segs[rank].mem, addr) {
			return win.View(r.rank), true
		}
	}
	return nil, false
}

// Regions yields a view of every live window in registration order. Windows
// registered or freed during iteration are not observed.
func (r *Registry) Regions() iter.Seq[rma.Region] {
	return func(yield func(rma.Region) bool) {
		for _, win := range r.world.Windows() {
			if !yield(win.View(r.rank)) {
				return
			}
		}
	}
}

// Progress completes this rank's queued operations whose target segment is
// not locked. It never blocks on a segment lock.
func (r *Registry) Progress() {
	for _, win := range r.world.Windows() {
		n, err := win.progress(r.rank)
		if err != nil {
			logger.Warn("progress failed", "rank", r.rank, "window", win.id, "err", err)
		}
		if n > 0 {
			logger.Debug("progress", "rank", r.rank, "window", win.id, "completed", n)
		}
	}
}
