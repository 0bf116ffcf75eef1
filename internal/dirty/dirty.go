// Package dirty tracks which pages of a shared segment were written by
// completed one-sided operations or by direct access under the segment's
// lock, and flushes them.
//
// The tracker maintains a list of dirty byte ranges, coalesces them into
// page-aligned ranges, and flushes them with msync so that other processes
// mapping the same file observe a consistent view after a sync point.
package dirty

import (
	"sort"
	"sync"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// Range represents a dirty byte range (offsets within the segment).
type Range struct {
	Off int64
	Len int64
}

// Tracker accumulates dirty ranges of one segment and flushes them.
//
// Completions for a segment can run on any rank's goroutine, so the tracker
// is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	data     []byte
	ranges   []Range
	pageSize int64
}

// NewTracker creates a tracker for the mapping data. data must be the whole
// mapping so that page offsets line up with the mmap base address.
func NewTracker(data []byte) *Tracker {
	return &Tracker{
		data:     data,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Empty ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.mu.Lock()
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
	t.mu.Unlock()
}

// Pending reports whether any range is waiting to be flushed.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ranges) > 0
}

// Flush writes every dirty page back and clears the tracked ranges. On
// error the ranges are kept so a later Flush retries them.
func (t *Tracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.ranges) == 0 || len(t.data) == 0 {
		t.ranges = t.ranges[:0]
		return nil
	}
	if err := t.flushRanges(t.data, t.coalesce()); err != nil {
		return err
	}
	t.ranges = t.ranges[:0]
	return nil
}

// Reset clears all tracked ranges without flushing.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.ranges = t.ranges[:0]
	t.mu.Unlock()
}

// Coalesced returns the page-aligned, merged ranges a Flush would write.
func (t *Tracker) Coalesced() []Range {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.coalesce()
}

// coalesce page-aligns all ranges, clamps them to the mapping, sorts them,
// and merges overlapping/adjacent ranges. Caller holds t.mu.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	limit := int64(len(t.data))
	aligned := make([]Range, 0, len(t.ranges))
	for _, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		if limit > 0 && end > limit {
			end = limit
		}
		if start >= end {
			continue
		}

		aligned = append(aligned, Range{Off: start, Len: end - start})
	}
	if len(aligned) == 0 {
		return nil
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.Off+current.Len {
			end := current.Off + current.Len
			nextEnd := next.Off + next.Len
			if nextEnd > end {
				end = nextEnd
			}
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	merged = append(merged, current)

	return merged
}
