package rma

import (
	"bytes"
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockRegion records every completion call into a shared event log.
type mockRegion struct {
	mock.Mock
	name   string
	events *[]string
}

func (m *mockRegion) record(call string) { *m.events = append(*m.events, m.name+"."+call) }

func (m *mockRegion) Lock() error   { return m.Called().Error(0) }
func (m *mockRegion) Unlock() error { return m.Called().Error(0) }

func (m *mockRegion) Flush(peer int) error {
	m.record("Flush")
	return m.Called(peer).Error(0)
}

func (m *mockRegion) FlushAll() error {
	m.record("FlushAll")
	return m.Called().Error(0)
}

func (m *mockRegion) Sync() error {
	m.record("Sync")
	return m.Called().Error(0)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) Lookup(addr uintptr, rank int) (Region, bool) {
	args := m.Called(addr, rank)
	r, _ := args.Get(0).(Region)
	return r, args.Bool(1)
}

func (m *mockRegistry) Regions() iter.Seq[Region] {
	return slices.Values(m.Called().Get(0).([]Region))
}

func (m *mockRegistry) Progress() { m.Called() }

type mockAsync struct {
	mock.Mock
	events *[]string
}

func (m *mockAsync) ResetLocal(r Region) error {
	*m.events = append(*m.events, "reset:"+r.(*mockRegion).name)
	return m.Called(r).Error(0)
}

func (m *mockAsync) Update(r Region, mode AsyncMode) error {
	*m.events = append(*m.events, "update:"+r.(*mockRegion).name+":"+mode.String())
	return m.Called(r, mode).Error(0)
}

type mockDumper struct {
	mockAsync
}

func (m *mockDumper) DumpAsync(r Region, name string) error {
	label := ""
	switch v := r.(type) {
	case *mockRegion:
		label = v.name
	case leaderRegion:
		label = v.name
	}
	*m.events = append(*m.events, "dump:"+label+":"+name)
	return m.Called(r, name).Error(0)
}

// leaderRegion is a mockRegion that reports its own group rank.
type leaderRegion struct {
	*mockRegion
	rank int
}

func (r leaderRegion) Rank() int { return r.rank }

type syncHarness struct {
	ctx     *Context
	tr      *fakeTransport
	reg     *mockRegistry
	regions []*mockRegion
	events  []string
	errw    bytes.Buffer
}

func newSyncHarness(t *testing.T, names []string, opts *Options) *syncHarness {
	t.Helper()
	h := &syncHarness{tr: newFakeTransport(0, 3), reg: &mockRegistry{}}
	h.tr.events = &h.events

	var list []Region
	for _, n := range names {
		r := &mockRegion{name: n, events: &h.events}
		r.Test(t)
		h.regions = append(h.regions, r)
		list = append(list, r)
	}
	h.reg.Test(t)
	h.reg.On("Regions").Return(list)

	if opts == nil {
		opts = DefaultOptions()
	}
	opts.ErrorOutput = &h.errw
	h.ctx = New(h.tr, h.reg, opts)
	return h
}

func (h *syncHarness) expectFlushSync() {
	for _, r := range h.regions {
		r.On("FlushAll").Return(nil)
		r.On("Sync").Return(nil)
	}
}

func (h *syncHarness) assertExpectations(t *testing.T) {
	t.Helper()
	for _, r := range h.regions {
		r.AssertExpectations(t)
	}
	h.reg.AssertExpectations(t)
}

func TestAllFence_Order(t *testing.T) {
	h := newSyncHarness(t, []string{"a", "b", "c"}, nil)
	h.expectFlushSync()

	h.ctx.AllFence()

	assert.Equal(t, []string{
		"a.FlushAll", "a.Sync",
		"b.FlushAll", "b.Sync",
		"c.FlushAll", "c.Sync",
		"barrier",
	}, h.events)
	h.assertExpectations(t)
}

func TestAllFence_NoRegions(t *testing.T) {
	h := newSyncHarness(t, nil, nil)
	h.ctx.AllFence()
	assert.Equal(t, []string{"barrier"}, h.events)
}

func TestFence_FlushesPeerOnly(t *testing.T) {
	h := newSyncHarness(t, []string{"a", "b"}, nil)
	for _, r := range h.regions {
		r.On("Flush", 2).Return(nil).Once()
	}

	h.ctx.Fence(2)

	assert.Equal(t, []string{"a.Flush", "b.Flush"}, h.events)
	assert.Zero(t, h.tr.barriers)
	h.assertExpectations(t)
}

func TestFence_BadPeer(t *testing.T) {
	h := newSyncHarness(t, []string{"a"}, nil)
	for _, peer := range []int{-1, 3} {
		ae := expectAbort(t, CodeUsage, func() { h.ctx.Fence(peer) })
		assert.ErrorIs(t, ae, ErrBadPeer)
	}
	assert.Empty(t, h.events)
}

func TestBarrier_Order(t *testing.T) {
	h := newSyncHarness(t, []string{"a", "b"}, nil)
	h.expectFlushSync()

	h.ctx.Barrier()

	assert.Equal(t, []string{
		"a.FlushAll", "a.Sync",
		"b.FlushAll", "b.Sync",
		"barrier",
		"barrier",
		"a.Sync", "b.Sync",
	}, h.events)
	assert.Equal(t, 2, h.tr.barriers)
	h.assertExpectations(t)
}

func TestAllFence_FlushErrorAborts(t *testing.T) {
	h := newSyncHarness(t, []string{"a", "b"}, nil)
	boom := errors.New("target unreachable")
	h.regions[0].On("FlushAll").Return(boom)

	ae := expectAbort(t, CodeTransport, func() { h.ctx.AllFence() })
	assert.ErrorIs(t, ae, boom)
	assert.Equal(t, []string{"a.FlushAll"}, h.events)
	assert.Contains(t, h.errw.String(), "[0] ARMCI Error:")
	assert.Contains(t, h.errw.String(), "target unreachable")
}

func TestFence_FlushErrorAborts(t *testing.T) {
	h := newSyncHarness(t, []string{"a"}, nil)
	h.regions[0].On("Flush", 1).Return(errors.New("lost"))
	expectAbort(t, CodeTransport, func() { h.ctx.Fence(1) })
}

func TestAllFence_AsyncPass(t *testing.T) {
	modes := []AsyncMode{AsyncOn, AsyncOff, AsyncAuto}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			async := &mockAsync{}
			async.Test(t)
			opts := DefaultOptions()
			opts.Config.Async = mode
			opts.Async = async

			h := newSyncHarness(t, []string{"a", "b"}, opts)
			async.events = &h.events
			h.expectFlushSync()
			async.On("ResetLocal", mock.Anything).Return(nil).Once()
			async.On("Update", mock.Anything, mode).Return(nil).Twice()

			h.ctx.AllFence()

			require.Equal(t, []string{
				"a.FlushAll", "a.Sync",
				"b.FlushAll", "b.Sync",
				"barrier",
				"reset:a",
				"update:a:" + mode.String(),
				"update:b:" + mode.String(),
			}, h.events)
			async.AssertExpectations(t)
		})
	}
}

func TestAllFence_AsyncUnsetSkipsPass(t *testing.T) {
	async := &mockAsync{}
	async.Test(t)
	opts := DefaultOptions()
	opts.Async = async

	h := newSyncHarness(t, []string{"a"}, opts)
	async.events = &h.events
	h.expectFlushSync()

	h.ctx.AllFence()
	async.AssertNotCalled(t, "ResetLocal", mock.Anything)
	async.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAllFence_AsyncErrorsDoNotAbort(t *testing.T) {
	async := &mockAsync{}
	async.Test(t)
	opts := DefaultOptions()
	opts.Config.Async = AsyncAuto
	opts.Async = async

	h := newSyncHarness(t, []string{"a"}, opts)
	async.events = &h.events
	h.expectFlushSync()
	async.On("ResetLocal", mock.Anything).Return(errors.New("no helper"))
	async.On("Update", mock.Anything, AsyncAuto).Return(errors.New("no helper"))

	assert.NotPanics(t, func() { h.ctx.AllFence() })
	assert.Empty(t, h.tr.aborts)
}

func TestDumpAsyncConfig(t *testing.T) {
	d := &mockDumper{}
	d.Test(t)
	opts := DefaultOptions()
	opts.Async = d

	h := newSyncHarness(t, []string{"a", "b"}, opts)
	d.events = &h.events
	d.On("DumpAsync", h.regions[0], "cfg").Return(errors.New("no helper")).Once()
	d.On("DumpAsync", h.regions[1], "cfg").Return(nil).Once()

	assert.NotPanics(t, func() { h.ctx.DumpAsyncConfig("cfg") })
	assert.Equal(t, []string{"dump:a:cfg", "dump:b:cfg"}, h.events)
	assert.Empty(t, h.tr.aborts)
	d.AssertExpectations(t)
}

func TestDumpAsyncConfig_OnlyGroupRankZero(t *testing.T) {
	d := &mockDumper{}
	d.Test(t)
	opts := DefaultOptions()
	opts.Async = d

	var events []string
	d.events = &events
	reg := &mockRegistry{}
	reg.Test(t)
	reg.On("Regions").Return([]Region{
		leaderRegion{&mockRegion{name: "lead", events: &events}, 0},
		leaderRegion{&mockRegion{name: "follow", events: &events}, 2},
	})
	d.On("DumpAsync", mock.Anything, "out").Return(nil).Once()

	// World rank 1 still dumps the region it leads.
	ctx := New(newFakeTransport(1, 3), reg, opts)
	ctx.DumpAsyncConfig("out")
	assert.Equal(t, []string{"dump:lead:out"}, events)
	d.AssertExpectations(t)
}

func TestDumpAsyncConfig_Skipped(t *testing.T) {
	h := newSyncHarness(t, []string{"a"}, nil)
	assert.NotPanics(t, func() { h.ctx.DumpAsyncConfig("cfg") })

	async := &mockAsync{}
	async.Test(t)
	opts := DefaultOptions()
	opts.Async = async
	h = newSyncHarness(t, []string{"a"}, opts)
	h.tr.rank = 1
	h.ctx.DumpAsyncConfig("cfg")
	assert.Empty(t, h.events)

	d := &mockDumper{}
	d.Test(t)
	opts = DefaultOptions()
	opts.Async = d
	h = newSyncHarness(t, []string{"a"}, opts)
	d.events = &h.events
	h.tr.rank = 1
	h.ctx.DumpAsyncConfig("cfg")
	assert.Empty(t, h.events, "a non-zero world rank without group ranks never dumps")
	d.AssertNotCalled(t, "DumpAsync", mock.Anything, mock.Anything)
}

func TestProgress(t *testing.T) {
	h := newSyncHarness(t, nil, nil)
	h.reg.On("Progress").Return().Twice()

	h.ctx.Progress()
	h.ctx.Progress()

	h.reg.AssertNumberOfCalls(t, "Progress", 2)
}

func TestNilRegistry(t *testing.T) {
	tr := newFakeTransport(0, 1)
	ctx := New(tr, nil, nil)

	orig := [][]byte{make([]byte, 4)}
	staged, moved := ctx.PreparePut(orig, 4)
	assert.Zero(t, moved)
	ctx.FinishPut(orig, staged, 4)
	ctx.Progress()
	ctx.Barrier()
	assert.Equal(t, 2, tr.barriers)
}
