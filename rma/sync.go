package rma

import (
	"fmt"
	"iter"
)

// Fence completes every operation this rank issued to peer, on every
// registered region. It does not synchronize with other ranks.
func (c *Context) Fence(peer int) {
	if peer < 0 || peer >= c.tr.Size() {
		c.fatal(CodeUsage, fmt.Errorf("%w: %d not in [0, %d)", ErrBadPeer, peer, c.tr.Size()))
	}
	c.counters.fences.Add(1)

	for r := range c.regions() {
		if err := r.Flush(peer); err != nil {
			c.fatal(CodeTransport, fmt.Errorf("rma: fence %d: %w", peer, err))
		}
	}
	c.debug("fence complete", "peer", peer)
}

// AllFence completes every operation this rank issued on every registered
// region and makes local memory consistent, then waits for all ranks to do
// the same. When asynchronous progress is configured, it is reapplied to
// every region afterwards.
func (c *Context) AllFence() {
	c.counters.allFences.Add(1)

	for r := range c.regions() {
		if err := r.FlushAll(); err != nil {
			c.fatal(CodeTransport, fmt.Errorf("rma: all-fence flush: %w", err))
		}
		if err := r.Sync(); err != nil {
			c.fatal(CodeTransport, fmt.Errorf("rma: all-fence sync: %w", err))
		}
	}

	if err := c.tr.Barrier(); err != nil {
		c.fatal(CodeTransport, fmt.Errorf("rma: all-fence barrier: %w", err))
	}

	c.configureAsync()
	c.debug("all-fence complete")
}

// Barrier is AllFence followed by a process barrier. On return, all
// operations issued before the barrier by any rank are complete and visible
// to direct access everywhere.
func (c *Context) Barrier() {
	c.AllFence()
	c.counters.barriers.Add(1)

	if err := c.tr.Barrier(); err != nil {
		c.fatal(CodeTransport, fmt.Errorf("rma: barrier: %w", err))
	}
	for r := range c.regions() {
		if err := r.Sync(); err != nil {
			c.fatal(CodeTransport, fmt.Errorf("rma: barrier sync: %w", err))
		}
	}
	c.debug("barrier complete")
}

// Progress advances outstanding transport work. It never blocks.
func (c *Context) Progress() {
	if c.reg != nil {
		c.reg.Progress()
	}
}

// configureAsync reapplies the configured async mode to every region. The
// first region also has its local state reset, once per pass. Failures are
// logged and do not abort.
func (c *Context) configureAsync() {
	if c.async == nil || c.cfg.Async == AsyncUnset {
		return
	}

	first := true
	for r := range c.regions() {
		if first {
			first = false
			if err := c.async.ResetLocal(r); err != nil {
				c.log.Warn("async reset failed", "rank", c.tr.Rank(), "err", err)
			}
		}
		if err := c.async.Update(r, c.cfg.Async); err != nil {
			c.log.Warn("async update failed", "rank", c.tr.Rank(), "mode", c.cfg.Async, "err", err)
		}
	}
}

// DumpAsyncConfig has the async configurer write each region's settings under
// name. Only rank 0 of a region's group writes. It does nothing when the
// configurer cannot dump, and failures are logged.
func (c *Context) DumpAsyncConfig(name string) {
	d, ok := c.async.(AsyncDumper)
	if !ok {
		return
	}
	for r := range c.regions() {
		rank := c.tr.Rank()
		if g, ok := r.(GroupRanker); ok {
			rank = g.Rank()
		}
		if rank != 0 {
			continue
		}
		if err := d.DumpAsync(r, name); err != nil {
			c.log.Warn("async dump failed", "name", name, "err", err)
		}
	}
}

func (c *Context) regions() iter.Seq[Region] {
	if c.reg == nil {
		return func(func(Region) bool) {}
	}
	return c.reg.Regions()
}
