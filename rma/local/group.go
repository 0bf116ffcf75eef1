package local

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joshuapare/rmakit/internal/logger"
	"github.com/joshuapare/rmakit/rma"
)

// Group is a set of ranks sharing one barrier.
type Group struct {
	size  int
	opts  options
	ranks []*Transport

	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	gen     uint64
	aborted bool
	code    int
}

// NewGroup creates a group of size ranks.
func NewGroup(size int, opts ...Option) (*Group, error) {
	if size <= 0 {
		return nil, fmt.Errorf("local: group size %d must be positive", size)
	}
	g := &Group{size: size, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&g.opts)
	}
	g.cond = sync.NewCond(&g.mu)
	g.ranks = make([]*Transport, size)
	for r := range size {
		g.ranks[r] = &Transport{g: g, rank: r, live: make(map[*byte]int)}
	}
	return g, nil
}

// Size returns the number of ranks.
func (g *Group) Size() int { return g.size }

// Rank returns the transport for rank r.
func (g *Group) Rank(r int) *Transport { return g.ranks[r] }

// Aborted reports whether any rank has aborted, and with which code.
func (g *Group) Aborted() (bool, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.aborted, g.code
}

// Run calls fn concurrently for every rank and waits for all of them. A rank
// that aborts through rma.Context reports its *rma.AbortError.
func (g *Group) Run(fn func(t *Transport) error) error {
	errs := make([]error, g.size)
	var wg sync.WaitGroup
	for r, t := range g.ranks {
		wg.Go(func() {
			defer func() {
				if p := recover(); p != nil {
					ae, ok := p.(*rma.AbortError)
					if !ok {
						panic(p)
					}
					errs[r] = ae
				}
			}()
			if err := fn(t); err != nil {
				errs[r] = fmt.Errorf("rank %d: %w", r, err)
			}
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (g *Group) barrier() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.aborted {
		return ErrAborted
	}
	gen := g.gen
	g.arrived++
	if g.arrived == g.size {
		g.arrived = 0
		g.gen++
		g.cond.Broadcast()
		return nil
	}
	for gen == g.gen && !g.aborted {
		g.cond.Wait()
	}
	if gen == g.gen {
		return ErrAborted
	}
	return nil
}

func (g *Group) abort(rank, code int) {
	g.mu.Lock()
	if !g.aborted {
		g.aborted = true
		g.code = code
	}
	g.cond.Broadcast()
	g.mu.Unlock()

	logger.Error("group abort", "rank", rank, "code", code)
	g.opts.abort(rank, code)
}
