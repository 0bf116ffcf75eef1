package local

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/rmakit/internal/shmem"
	"github.com/joshuapare/rmakit/rma"
)

var _ rma.Transport = (*Transport)(nil)

// Transport is one rank of a Group.
type Transport struct {
	g    *Group
	rank int

	mu   sync.Mutex
	live map[*byte]int
}

func (t *Transport) Rank() int { return t.rank }

func (t *Transport) Size() int { return t.g.size }

// Group returns the group the rank belongs to.
func (t *Transport) Group() *Group { return t.g }

// Barrier blocks until every rank has entered it, or returns ErrAborted.
func (t *Transport) Barrier() error {
	return t.g.barrier()
}

// Alloc maps size bytes of shared memory for the rank.
func (t *Transport) Alloc(size int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit := t.g.opts.allocLimit; limit > 0 && len(t.live) >= limit {
		return nil, fmt.Errorf("%w (%d)", ErrAllocLimit, limit)
	}
	b, err := shmem.Alloc(size)
	if err != nil {
		return nil, err
	}
	t.live[unsafe.SliceData(b)] = size
	return b, nil
}

// Free releases a buffer returned by Alloc. The slice may be resliced but
// must start at the same byte.
func (t *Transport) Free(b []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := unsafe.SliceData(b)
	size, ok := t.live[p]
	if !ok {
		return ErrUnknownBuffer
	}
	if err := shmem.Free(unsafe.Slice(p, size)); err != nil {
		return err
	}
	delete(t.live, p)
	return nil
}

// Live returns the number of buffers allocated and not yet freed.
func (t *Transport) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Abort marks the group aborted, wakes every rank in a barrier, and runs the
// group's abort action.
func (t *Transport) Abort(code int) {
	t.g.abort(t.rank, code)
}
