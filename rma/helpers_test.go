package rma

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/rmakit/internal/buf"
)

var errNoMem = errors.New("out of transport memory")

// fakeTransport hands out heap buffers and tracks which are live so tests
// can prove every private buffer is released exactly once.
type fakeTransport struct {
	rank, size int
	limit      int // max live buffers; 0 is unlimited

	live     map[*byte]int
	allocs   int
	frees    int
	barriers int
	aborts   []int

	events *[]string
}

func newFakeTransport(rank, size int) *fakeTransport {
	return &fakeTransport{rank: rank, size: size, live: make(map[*byte]int)}
}

func (f *fakeTransport) Rank() int { return f.rank }
func (f *fakeTransport) Size() int { return f.size }

func (f *fakeTransport) Barrier() error {
	f.barriers++
	if f.events != nil {
		*f.events = append(*f.events, "barrier")
	}
	return nil
}

func (f *fakeTransport) Alloc(size int) ([]byte, error) {
	if f.limit > 0 && len(f.live) >= f.limit {
		return nil, errNoMem
	}
	b := make([]byte, size)
	f.live[unsafe.SliceData(b)] = size
	f.allocs++
	return b, nil
}

func (f *fakeTransport) Free(b []byte) error {
	p := unsafe.SliceData(b)
	if _, ok := f.live[p]; !ok {
		return fmt.Errorf("free of unknown buffer %p", p)
	}
	delete(f.live, p)
	f.frees++
	return nil
}

func (f *fakeTransport) Abort(code int) { f.aborts = append(f.aborts, code) }

func (f *fakeTransport) Live() int { return len(f.live) }

func (f *fakeTransport) owns(b []byte) bool {
	_, ok := f.live[unsafe.SliceData(b)]
	return ok
}

// fakeRegion is a region over a plain byte slice. Lock and Unlock fail on
// misuse so nesting or a missing unlock shows up as an abort. failLock and
// failUnlock, when set, make that numbered call (from 1) fail.
type fakeRegion struct {
	name   string
	mem    []byte
	locked bool
	locks  int

	failLock, failUnlock int
	unlockCalls          int
}

func (r *fakeRegion) Lock() error {
	if r.locked {
		return fmt.Errorf("%s: already locked", r.name)
	}
	if r.locks+1 == r.failLock {
		return fmt.Errorf("%s: lock refused", r.name)
	}
	r.locked = true
	r.locks++
	return nil
}

func (r *fakeRegion) Unlock() error {
	if !r.locked {
		return fmt.Errorf("%s: not locked", r.name)
	}
	r.unlockCalls++
	if r.unlockCalls == r.failUnlock {
		return fmt.Errorf("%s: unlock refused", r.name)
	}
	r.locked = false
	return nil
}

func (r *fakeRegion) Flush(int) error { return nil }
func (r *fakeRegion) FlushAll() error { return nil }
func (r *fakeRegion) Sync() error     { return nil }

type fakeRegistry struct {
	regions  []*fakeRegion
	lookups  int
	ranks    []int
	progress int
}

func (g *fakeRegistry) add(name string, size int) *fakeRegion {
	r := &fakeRegion{name: name, mem: make([]byte, size)}
	g.regions = append(g.regions, r)
	return r
}

func (g *fakeRegistry) Lookup(addr uintptr, rank int) (Region, bool) {
	g.lookups++
	g.ranks = append(g.ranks, rank)
	for _, r := range g.regions {
		if buf.Contains(r.mem, addr) {
			return r, true
		}
	}
	return nil, false
}

func (g *fakeRegistry) Regions() iter.Seq[Region] {
	return func(yield func(Region) bool) {
		for _, r := range g.regions {
			if !yield(r) {
				return
			}
		}
	}
}

func (g *fakeRegistry) Progress() { g.progress++ }

func (g *fakeRegistry) anyLocked() bool {
	return slices.ContainsFunc(g.regions, func(r *fakeRegion) bool { return r.locked })
}

type harness struct {
	ctx  *Context
	tr   *fakeTransport
	reg  *fakeRegistry
	errw *bytes.Buffer
}

func newHarness(t *testing.T, guard GuardMode) *harness {
	t.Helper()
	h := &harness{
		tr:   newFakeTransport(0, 2),
		reg:  &fakeRegistry{},
		errw: &bytes.Buffer{},
	}
	cfg := DefaultConfig()
	cfg.Guard = guard
	h.ctx = New(h.tr, h.reg, &Options{Config: cfg, ErrorOutput: h.errw})
	return h
}

func fill(b []byte, seed byte) []byte {
	for i := range b {
		b[i] = seed + byte(i)
	}
	return b
}

// expectAbort runs fn and requires that it takes the fatal path with code.
func expectAbort(t *testing.T, code int, fn func()) *AbortError {
	t.Helper()
	var ae *AbortError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected abort with code %d", code)
			var ok bool
			ae, ok = r.(*AbortError)
			require.True(t, ok, "panic value %v is not *AbortError", r)
		}()
		fn()
	}()
	assert.Equal(t, code, ae.Code)
	return ae
}

// requireCorrespondence checks that every staged entry is either its own
// original or a live transport buffer, and that moved counts the latter.
func requireCorrespondence(t *testing.T, tr *fakeTransport, orig, staged [][]byte, moved int) {
	t.Helper()
	require.Len(t, staged, len(orig))
	n := 0
	for i := range orig {
		if buf.Same(orig[i], staged[i]) {
			continue
		}
		require.True(t, tr.owns(staged[i]), "entry %d is neither original nor a fresh private buffer", i)
		n++
	}
	require.Equal(t, n, moved)
}
