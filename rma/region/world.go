package region

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/joshuapare/rmakit/internal/logger"
)

// World is the registry shared by every rank of one group.
type World struct {
	size int

	mu      sync.Mutex
	windows []*Window // registration order
	nextID  int
}

// NewWorld creates an empty world for size ranks.
func NewWorld(size int) (*World, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: world size %d", ErrBadRank, size)
	}
	return &World{size: size}, nil
}

// Size returns the number of ranks.
func (w *World) Size() int { return w.size }

// Create registers a window of anonymous shared memory with segSize bytes per
// rank.
func (w *World) Create(segSize int) (*Window, error) {
	segs := make([]*segment, 0, w.size)
	for r := range w.size {
		s, err := newAnonSegment(segSize)
		if err != nil {
			releaseAll(segs)
			return nil, fmt.Errorf("region: create segment for rank %d: %w", r, err)
		}
		segs = append(segs, s)
	}
	return w.register(segs), nil
}

// Map registers a window backed by one shared file mapping per rank. Each
// file is grown to segSize bytes if shorter; a segSize of 0 maps each file at
// its current length.
func (w *World) Map(segSize int, paths []string) (*Window, error) {
	if len(paths) != w.size {
		return nil, fmt.Errorf("%w: got %d paths for %d ranks", ErrPathCount, len(paths), w.size)
	}
	segs := make([]*segment, 0, w.size)
	for r, p := range paths {
		s, err := newFileSegment(p, segSize)
		if err != nil {
			releaseAll(segs)
			return nil, fmt.Errorf("region: map segment for rank %d: %w", r, err)
		}
		segs = append(segs, s)
	}
	return w.register(segs), nil
}

func (w *World) register(segs []*segment) *Window {
	w.mu.Lock()
	defer w.mu.Unlock()

	win := newWindow(w, w.nextID, segs)
	w.nextID++
	w.windows = append(w.windows, win)
	logger.Debug("window registered", "id", win.id, "ranks", len(segs), "segment", len(segs[0].mem), "file", segs[0].file != nil)
	return win
}

// Free completes the window's outstanding operations, unregisters it and
// releases its memory.
func (w *World) Free(win *Window) error {
	win.mu.Lock()
	if win.freed {
		win.mu.Unlock()
		return ErrFreed
	}
	win.freed = true
	win.mu.Unlock()

	err := win.drain()

	w.mu.Lock()
	w.windows = slices.DeleteFunc(w.windows, func(x *Window) bool { return x == win })
	w.mu.Unlock()

	if rerr := releaseAll(win.segs); rerr != nil {
		err = errors.Join(err, rerr)
	}
	logger.Debug("window freed", "id", win.id)
	return err
}

// Windows returns the live windows in registration order.
func (w *World) Windows() []*Window {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.windows)
}

// Registry returns rank's view of the world. It panics if rank is out of
// range.
func (w *World) Registry(rank int) *Registry {
	if rank < 0 || rank >= w.size {
		panic(fmt.Sprintf("region: registry for rank %d of %d", rank, w.size))
	}
	return &Registry{world: w, rank: rank}
}

func releaseAll(segs []*segment) error {
	var errs []error
	for _, s := range segs {
		if err := s.release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
