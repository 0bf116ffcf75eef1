package rma

import (
	"errors"
	"fmt"

	"github.com/joshuapare/rmakit/internal/buf"
	"github.com/joshuapare/rmakit/rma/datatype"
)

// PreparePut returns a batch of put sources that are safe to read while the
// transport runs. Sources inside a registered region are copied, under the
// region's lock, into private buffers. The result must be passed to
// FinishPut once the puts have completed.
func (c *Context) PreparePut(orig [][]byte, size int) ([][]byte, int) {
	c.checkBatch("put", orig, size)
	c.counters.putBatches.Add(1)

	if c.cfg.Guard == GuardNone {
		return orig, 0
	}

	staged := make([][]byte, len(orig))
	moved := 0
	for i, b := range orig {
		r, ok := c.lookup(b, size)
		if !ok {
			staged[i] = b
			continue
		}

		p := c.allocPrivate(orig, staged[:i], size)
		c.lock(r, orig, staged[:i], p)
		copy(p, b[:size])
		c.unlock(r, orig, staged[:i], p)

		staged[i] = p
		moved++
	}

	c.counters.putMoved.Add(uint64(moved))
	c.debug("prepared put batch", "count", len(orig), "size", size, "moved", moved)
	return staged, moved
}

// FinishPut releases the private buffers made by PreparePut. Put only reads
// its source, so nothing is copied back.
func (c *Context) FinishPut(orig, staged [][]byte, size int) {
	if c.cfg.Guard == GuardNone {
		return
	}
	c.checkPair("put", orig, staged)
	c.release(orig, staged)
}

// PrepareGet returns a batch of get destinations that are safe to write
// while the transport runs. Destinations inside a registered region are
// replaced by fresh private buffers; FinishGet copies the received bytes
// back.
func (c *Context) PrepareGet(orig [][]byte, size int) ([][]byte, int) {
	c.checkBatch("get", orig, size)
	c.counters.getBatches.Add(1)

	if c.cfg.Guard == GuardNone {
		return orig, 0
	}

	staged := make([][]byte, len(orig))
	moved := 0
	for i, b := range orig {
		if _, ok := c.lookup(b, size); !ok {
			staged[i] = b
			continue
		}
		staged[i] = c.allocPrivate(orig, staged[:i], size)
		moved++
	}

	c.counters.getMoved.Add(uint64(moved))
	c.debug("prepared get batch", "count", len(orig), "size", size, "moved", moved)
	return staged, moved
}

// FinishGet copies every staged destination back into its original buffer,
// under the region's lock, and releases the private buffer.
func (c *Context) FinishGet(orig, staged [][]byte, size int) {
	if c.cfg.Guard == GuardNone {
		return
	}
	c.checkPair("get", orig, staged)

	for i := range orig {
		if buf.Same(orig[i], staged[i]) {
			continue
		}
		// Entries from i on are still held if the copy-back cannot proceed.
		r, ok := c.lookup(orig[i], size)
		if !ok {
			c.rollback(orig[i:], staged[i:])
			c.fatal(CodeConsistency, fmt.Errorf("%w: get entry %d", ErrRegionMissing, i))
		}

		c.lock(r, orig[i:], staged[i:], nil)
		copy(orig[i][:size], staged[i][:size])
		c.unlock(r, orig[i:], staged[i:], nil)

		c.free(staged[i])
	}
}

// PrepareAcc returns a batch of accumulate sources already multiplied by s.
// Under GuardCopy, a source inside a registered region is read under the
// region's lock and always ends up in a private buffer, even when s is the
// identity.
func (c *Context) PrepareAcc(orig [][]byte, size int, s datatype.Scale) ([][]byte, int) {
	c.checkBatch("acc", orig, size)
	c.counters.accBatches.Add(1)

	staged := make([][]byte, len(orig))
	moved := 0
	for i, b := range orig {
		var r Region
		guarded := false
		if c.cfg.Guard != GuardNone {
			r, guarded = c.lookup(b, size)
		}

		if guarded {
			c.lock(r, orig, staged[:i], nil)
		}

		p, err := datatype.Apply(b, size, s, c.tr)
		if err == nil && guarded && buf.Same(p, b) {
			var q []byte
			if q, err = c.tr.Alloc(size); err == nil {
				copy(q, b[:size])
				p = q
			}
		}

		if guarded {
			var held []byte
			if err == nil && !buf.Same(p, b) {
				held = p
			}
			c.unlock(r, orig, staged[:i], held)
		}

		if err != nil {
			c.rollback(orig, staged[:i])
			if errors.Is(err, datatype.ErrSizeMismatch) || errors.Is(err, datatype.ErrUnknownDatatype) {
				c.fatal(CodeDatatype, err)
			}
			c.fatal(CodeNoMemory, fmt.Errorf("%w: acc entry %d: %v", ErrNoMemory, i, err))
		}

		staged[i] = p
		if !buf.Same(p, b) {
			moved++
		}
	}

	c.counters.accMoved.Add(uint64(moved))
	c.debug("prepared acc batch", "count", len(orig), "size", size, "moved", moved)
	return staged, moved
}

// FinishAcc releases every staged accumulate source that is not the original.
// This applies in both guard modes since scaling allocates regardless.
func (c *Context) FinishAcc(orig, staged [][]byte, size int) {
	c.checkPair("acc", orig, staged)
	c.release(orig, staged)
}

// lookup finds the registered region holding b. Empty transfers never touch
// memory and are never staged.
func (c *Context) lookup(b []byte, size int) (Region, bool) {
	if size == 0 || c.reg == nil {
		return nil, false
	}
	return c.reg.Lookup(buf.Addr(b), c.tr.Rank())
}

// allocPrivate returns size bytes of private memory. On failure it releases
// what this batch has staged so far and aborts.
func (c *Context) allocPrivate(orig, staged [][]byte, size int) []byte {
	p, err := c.tr.Alloc(size)
	if err != nil {
		c.rollback(orig, staged)
		c.fatal(CodeNoMemory, fmt.Errorf("%w: entry %d: %v", ErrNoMemory, len(staged), err))
	}
	return p[:size]
}

// rollback frees the private buffers in a partially staged batch.
func (c *Context) rollback(orig, staged [][]byte) {
	for i, p := range staged {
		if p == nil || buf.Same(p, orig[i]) {
			continue
		}
		if err := c.tr.Free(p); err != nil {
			c.log.Warn("release during rollback failed", "entry", i, "err", err)
		}
	}
}

// release frees every staged entry that differs from its original.
func (c *Context) release(orig, staged [][]byte) {
	for i := range orig {
		if !buf.Same(orig[i], staged[i]) {
			c.free(staged[i])
		}
	}
}

func (c *Context) free(p []byte) {
	if err := c.tr.Free(p); err != nil {
		c.fatal(CodeNoMemory, fmt.Errorf("rma: release private buffer: %w", err))
	}
}

// lock acquires r for a direct access made while staging a batch. On failure
// the batch's private buffers, plus held if not nil, are released before the
// abort.
func (c *Context) lock(r Region, orig, staged [][]byte, held []byte) {
	if err := r.Lock(); err != nil {
		c.abortBatch(orig, staged, held, fmt.Errorf("rma: region lock: %w", err))
	}
}

func (c *Context) unlock(r Region, orig, staged [][]byte, held []byte) {
	if err := r.Unlock(); err != nil {
		c.abortBatch(orig, staged, held, fmt.Errorf("rma: region unlock: %w", err))
	}
}

func (c *Context) abortBatch(orig, staged [][]byte, held []byte, err error) {
	c.rollback(orig, staged)
	if held != nil {
		if ferr := c.tr.Free(held); ferr != nil {
			c.log.Warn("release during rollback failed", "err", ferr)
		}
	}
	c.fatal(CodeTransport, err)
}

func (c *Context) checkBatch(op string, orig [][]byte, size int) {
	if size < 0 {
		c.fatal(CodeUsage, fmt.Errorf("rma: %s batch: negative size %d", op, size))
	}
	for i, b := range orig {
		if len(b) < size {
			c.fatal(CodeUsage, fmt.Errorf("%w: %s entry %d holds %d bytes, size is %d", ErrShortBuffer, op, i, len(b), size))
		}
	}
}

func (c *Context) checkPair(op string, orig, staged [][]byte) {
	if len(orig) != len(staged) {
		c.fatal(CodeConsistency, fmt.Errorf("%w: %s has %d originals, %d staged", ErrBatchMismatch, op, len(orig), len(staged)))
	}
}
