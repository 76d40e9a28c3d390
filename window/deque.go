package window

import (
	"github.com/gammazero/deque"
	core "github.com/textileio/go-tempwindow/core/window"
)

var _ core.Tracker = (*DequeTracker)(nil)

// DequeTracker keeps window extrema in two monotonic deques. Front to back,
// mins is non-decreasing and maxs is non-increasing, so each front is the
// current extremum.
//
// An element smaller than a newer element can never become the window
// maximum while that newer one is resident, so it is dropped from the back
// of maxs when the newer one arrives (symmetric for mins). Each element
// enters and leaves each deque at most once, which makes updates amortized O(1).
//
// The squeeze is strict: equal values all stay in the deque. This keeps deque
// entries in 1:1 correspondence with the resident elements they stand for, so
// an element leaving the window can be matched against a front by value.
// NaN never matches and is not supported; ConcurrentWindow rejects it.
type DequeTracker struct {
	mins, maxs deque.Deque[float64]
}

func NewDequeTracker() *DequeTracker {
	return &DequeTracker{}
}

func (d *DequeTracker) OnInsert(v, evicted float64, hasEvicted bool) {
	if hasEvicted {
		d.OnRemove(evicted)
	}

	for d.maxs.Len() > 0 && d.maxs.Back() < v {
		d.maxs.PopBack()
	}
	d.maxs.PushBack(v)

	for d.mins.Len() > 0 && d.mins.Back() > v {
		d.mins.PopBack()
	}
	d.mins.PushBack(v)
}

// OnRemove must be called for the oldest resident element, in FIFO order.
func (d *DequeTracker) OnRemove(v float64) {
	if d.mins.Len() > 0 && d.mins.Front() == v {
		d.mins.PopFront()
	}
	if d.maxs.Len() > 0 && d.maxs.Front() == v {
		d.maxs.PopFront()
	}
}

func (d *DequeTracker) Min() float64 {
	if d.mins.Len() == 0 {
		return core.EmptyMin
	}
	return d.mins.Front()
}

func (d *DequeTracker) Max() float64 {
	if d.maxs.Len() == 0 {
		return core.EmptyMax
	}
	return d.maxs.Front()
}

func (d *DequeTracker) Extrema() (core.Extrema, bool) {
	if d.mins.Len() == 0 {
		return core.Extrema{Min: core.EmptyMin, Max: core.EmptyMax}, false
	}
	return core.Extrema{Min: d.mins.Front(), Max: d.maxs.Front()}, true
}

func (d *DequeTracker) Reset() {
	d.mins.Clear()
	d.maxs.Clear()
}

// depth reports the deque lengths, used by tests to check the squeeze.
func (d *DequeTracker) depth() (mins, maxs int) {
	return d.mins.Len(), d.maxs.Len()
}
