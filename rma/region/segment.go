package region

import (
	"sync"
	"sync/atomic"

	"github.com/joshuapare/rmakit/internal/dirty"
	"github.com/joshuapare/rmakit/internal/shmem"
	"github.com/joshuapare/rmakit/rma/datatype"
)

// segment is one rank's memory in a window.
type segment struct {
	mem   []byte
	file  *shmem.File    // nil for anonymous segments
	dirty *dirty.Tracker // nil for anonymous segments

	mu     sync.Mutex
	locked atomic.Bool
}

func newAnonSegment(size int) (*segment, error) {
	mem, err := shmem.Alloc(size)
	if err != nil {
		return nil, err
	}
	return &segment{mem: mem}, nil
}

func newFileSegment(path string, size int) (*segment, error) {
	f, err := shmem.MapFile(path, size)
	if err != nil {
		return nil, err
	}
	mem := f.Data
	if size > 0 {
		mem = mem[:size:size]
	}
	return &segment{mem: mem, file: f, dirty: dirty.NewTracker(f.Data)}, nil
}

func (s *segment) lock() error {
	s.mu.Lock()
	if s.file != nil {
		if err := flock(s.file.FD()); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.locked.Store(true)
	return nil
}

// tryLock takes the lock only if neither this process nor another one holds
// it.
func (s *segment) tryLock() bool {
	if !s.mu.TryLock() {
		return false
	}
	if s.file != nil {
		ok, err := tryFlock(s.file.FD())
		if err != nil || !ok {
			s.mu.Unlock()
			return false
		}
	}
	s.locked.Store(true)
	return true
}

func (s *segment) unlock() error {
	if !s.locked.Swap(false) {
		return ErrNotLocked
	}
	var err error
	if s.file != nil {
		err = funlock(s.file.FD())
	}
	s.mu.Unlock()
	return err
}

// apply performs o against the segment. The caller holds the lock and has
// validated o's bounds and datatype.
func (s *segment) apply(o op) error {
	n := len(o.local)
	dst := s.mem[o.off : o.off+n]
	switch o.kind {
	case opPut:
		copy(dst, o.local)
		s.touch(o.off, n)
	case opGet:
		copy(o.local, dst)
	case opAcc:
		if err := datatype.Accumulate(dst, o.local, n, o.dt); err != nil {
			return err
		}
		s.touch(o.off, n)
	}
	return nil
}

func (s *segment) touch(off, n int) {
	if s.dirty != nil {
		s.dirty.Add(off, n)
	}
}

func (s *segment) sync() error {
	if s.dirty == nil {
		return nil
	}
	return s.dirty.Flush()
}

func (s *segment) release() error {
	if s.file != nil {
		return s.file.Close()
	}
	return shmem.Free(s.mem)
}
