package region

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joshuapare/rmakit/internal/buf"
	"github.com/joshuapare/rmakit/rma/datatype"
)

type opKind uint8

const (
	opPut opKind = iota
	opGet
	opAcc
)

// op is a one-sided operation waiting for completion. local is the origin's
// buffer: the source of a put or accumulate, the destination of a get.
type op struct {
	kind   opKind
	target int
	off    int
	local  []byte
	dt     datatype.Datatype
}

// Window is a registered region: one segment per rank of the world.
type Window struct {
	id    int
	world *World
	segs  []*segment
	views []*View

	mu      sync.Mutex
	pending [][]op // indexed by origin rank, in issue order
	freed   bool
}

func newWindow(world *World, id int, segs []*segment) *Window {
	w := &Window{
		id:      id,
		world:   world,
		segs:    segs,
		views:   make([]*View, len(segs)),
		pending: make([][]op, len(segs)),
	}
	for r := range segs {
		w.views[r] = &View{w: w, rank: r}
	}
	return w
}

// ID returns the window's registration number within its world.
func (w *Window) ID() int { return w.id }

// Segment returns rank's memory for direct access. Callers that may race the
// transport must bracket access with View.Lock and View.Unlock.
func (w *Window) Segment(rank int) []byte {
	return w.segs[rank].mem
}

// View returns rank's handle on the window.
func (w *Window) View(rank int) *View {
	return w.views[rank]
}

// Pending returns the number of queued operations issued by origin.
func (w *Window) Pending(origin int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending[origin])
}

func (w *Window) isFreed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.freed
}

func (w *Window) enqueue(origin int, o op) error {
	if o.target < 0 || o.target >= len(w.segs) {
		return fmt.Errorf("%w: target %d", ErrBadRank, o.target)
	}
	if !buf.Has(w.segs[o.target].mem, o.off, len(o.local)) {
		return fmt.Errorf("%w: %d bytes at offset %d of rank %d", ErrOutOfRange, len(o.local), o.off, o.target)
	}
	if o.kind == opAcc {
		width := datatype.Width(o.dt)
		if width == 0 {
			return fmt.Errorf("region: acc: %w (%d)", datatype.ErrUnknownDatatype, int(o.dt))
		}
		if len(o.local)%width != 0 {
			return fmt.Errorf("region: acc: %w: %d bytes of %s", datatype.ErrSizeMismatch, len(o.local), o.dt)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.freed {
		return ErrFreed
	}
	w.pending[origin] = append(w.pending[origin], o)
	return nil
}

// take removes origin's queued operations for target, or all of them when
// target is negative.
func (w *Window) take(origin, target int) []op {
	w.mu.Lock()
	defer w.mu.Unlock()

	q := w.pending[origin]
	if target < 0 {
		w.pending[origin] = nil
		return q
	}
	var taken, kept []op
	for _, o := range q {
		if o.target == target {
			taken = append(taken, o)
		} else {
			kept = append(kept, o)
		}
	}
	w.pending[origin] = kept
	return taken
}

// requeue puts ops back ahead of anything queued since they were taken.
func (w *Window) requeue(origin int, ops []op) {
	if len(ops) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[origin] = append(ops, w.pending[origin]...)
}

func (w *Window) complete(o op) error {
	seg := w.segs[o.target]
	if err := seg.lock(); err != nil {
		return fmt.Errorf("region: lock rank %d: %w", o.target, err)
	}
	err := seg.apply(o)
	if uerr := seg.unlock(); err == nil {
		err = uerr
	}
	return err
}

// flush completes origin's operations to target (all targets if negative),
// blocking on segment locks.
func (w *Window) flush(origin, target int) error {
	ops := w.take(origin, target)
	for i, o := range ops {
		if err := w.complete(o); err != nil {
			w.requeue(origin, ops[i+1:])
			return err
		}
	}
	return nil
}

// progress completes origin's operations whose target segment is free right
// now. Once an operation to a target is deferred, later operations to that
// target are deferred too so per-target order holds.
func (w *Window) progress(origin int) (int, error) {
	ops := w.take(origin, -1)
	if len(ops) == 0 {
		return 0, nil
	}

	var (
		left    []op
		blocked = make(map[int]bool)
		done    int
		errs    []error
	)
	for _, o := range ops {
		if blocked[o.target] {
			left = append(left, o)
			continue
		}
		seg := w.segs[o.target]
		if !seg.tryLock() {
			blocked[o.target] = true
			left = append(left, o)
			continue
		}
		if err := seg.apply(o); err != nil {
			errs = append(errs, err)
		} else {
			done++
		}
		if err := seg.unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	w.requeue(origin, left)
	return done, errors.Join(errs...)
}

// drain completes every queued operation from every origin.
func (w *Window) drain() error {
	var errs []error
	for origin := range w.segs {
		if err := w.flush(origin, -1); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
