package region

import (
	"fmt"

	"github.com/joshuapare/rmakit/rma"
	"github.com/joshuapare/rmakit/rma/datatype"
)

var (
	_ rma.Region      = (*View)(nil)
	_ rma.GroupRanker = (*View)(nil)
)

// View is one rank's handle on a window. It is the rma.Region returned by
// Registry lookups.
type View struct {
	w    *Window
	rank int
}

// Window returns the window the view belongs to.
func (v *View) Window() *Window { return v.w }

// Rank returns the rank the view acts for.
func (v *View) Rank() int { return v.rank }

// Local returns the view's own segment.
func (v *View) Local() []byte { return v.w.segs[v.rank].mem }

// Lock acquires direct access to the view's own segment.
func (v *View) Lock() error {
	if v.w.isFreed() {
		return ErrFreed
	}
	return v.w.segs[v.rank].lock()
}

// Unlock releases direct access taken by Lock. The holder may have written
// anywhere in the segment, so a file-backed segment is marked dirty in full
// and the next Sync writes it back.
func (v *View) Unlock() error {
	seg := v.w.segs[v.rank]
	if seg.locked.Load() {
		seg.touch(0, len(seg.mem))
	}
	return seg.unlock()
}

// Put queues a copy of src into target's segment at off. src must not change
// until the operation completes.
func (v *View) Put(src []byte, target, off int) error {
	return v.w.enqueue(v.rank, op{kind: opPut, target: target, off: off, local: src})
}

// Get queues a copy of len(dst) bytes from target's segment at off into dst.
// dst holds the result only after the operation completes.
func (v *View) Get(dst []byte, target, off int) error {
	return v.w.enqueue(v.rank, op{kind: opGet, target: target, off: off, local: dst})
}

// Acc queues an element-wise add of src, read as dt, into target's segment
// at off.
func (v *View) Acc(src []byte, dt datatype.Datatype, target, off int) error {
	return v.w.enqueue(v.rank, op{kind: opAcc, target: target, off: off, local: src, dt: dt})
}

// Flush completes every operation this rank issued to peer on the window.
func (v *View) Flush(peer int) error {
	if peer < 0 || peer >= len(v.w.segs) {
		return fmt.Errorf("%w: peer %d", ErrBadRank, peer)
	}
	return v.w.flush(v.rank, peer)
}

// FlushAll completes every operation this rank issued on the window.
func (v *View) FlushAll() error {
	return v.w.flush(v.rank, -1)
}

// Sync writes back pages of the view's own segment dirtied by completed
// operations or by direct access under Lock. It is a no-op for anonymous
// segments.
func (v *View) Sync() error {
	if err := v.w.segs[v.rank].sync(); err != nil {
		return fmt.Errorf("region: sync rank %d: %w", v.rank, err)
	}
	return nil
}
