package window

import (
	"math"
	"sync/atomic"

	core "github.com/textileio/go-tempwindow/core/window"
)

// Element is the set of sample types a BoundedStore can hold. Every member
// converts to float64 and back without loss, which lets slots be stored as
// atomic 64-bit words.
type Element interface {
	~float32 | ~float64 | ~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32
}

var _ core.Store = (*BoundedStore[float64])(nil)

// snapshotAttempts bounds how often Snapshot retries when the writer evicts
// the range being read.
const snapshotAttempts = 8

// BoundedStore is a fixed capacity FIFO ring that overwrites its oldest
// element when full. It is safe for one writer calling Push and one reader
// calling Pop, Peek and Snapshot at the same time.
//
// Positions are monotonically increasing counters: head is the number of
// published writes, tail the number of elements that left the ring, either
// popped or evicted. The slot of position p is p % capacity. Only the writer
// stores head; tail is advanced with CAS by both sides, the writer when it
// evicts and the reader when it pops.
type BoundedStore[T Element] struct {
	slots    []atomic.Uint64
	capacity uint64
	head     atomic.Uint64
	tail     atomic.Uint64
}

func NewBoundedStore[T Element](capacity int) (*BoundedStore[T], error) {
	if capacity < 1 {
		return nil, core.ErrInvalidCapacity
	}
	return &BoundedStore[T]{
		slots:    make([]atomic.Uint64, capacity),
		capacity: uint64(capacity),
	}, nil
}

// Push appends v. When the store is full the oldest element is overwritten
// and returned with ok set.
func (s *BoundedStore[T]) Push(v T) (evicted T, ok bool) {
	evicted, ok = s.evictIfFull()
	s.publish(v)
	return
}

// evictIfFull claims the oldest slot when the store is full. If the reader
// pops that element first, nothing is evicted and the slot is free anyway.
func (s *BoundedStore[T]) evictIfFull() (T, bool) {
	var (
		h = s.head.Load()
		t = s.tail.Load()
	)
	if h-t < s.capacity {
		return 0, false
	}
	old := s.slots[t%s.capacity].Load()
	if !s.tail.CompareAndSwap(t, t+1) {
		return 0, false
	}
	return decode[T](old), true
}

// publish writes v into the next slot and then releases it to the reader by
// storing the new head. Requires a free slot.
func (s *BoundedStore[T]) publish(v T) {
	h := s.head.Load()
	s.slots[h%s.capacity].Store(encode(v))
	s.head.Store(h + 1)
}

// Pop removes the oldest element. It reports false on an empty store, which
// is not an error: the caller should simply try again later.
func (s *BoundedStore[T]) Pop() (T, bool) {
	for {
		var (
			t = s.tail.Load()
			h = s.head.Load()
		)
		if t >= h {
			return 0, false
		}
		bits := s.slots[t%s.capacity].Load()
		if s.tail.CompareAndSwap(t, t+1) {
			return decode[T](bits), true
		}
		// evicted by the writer while we were reading, retry with the new tail
	}
}

// Peek returns the oldest element without removing it. The read is retried
// while the writer keeps evicting the element being read, so false always
// means the store was empty.
func (s *BoundedStore[T]) Peek() (T, bool) {
	for {
		var (
			t = s.tail.Load()
			h = s.head.Load()
		)
		if t >= h {
			return 0, false
		}
		bits := s.slots[t%s.capacity].Load()
		if s.tail.Load() == t {
			return decode[T](bits), true
		}
	}
}

// PeekEvictionCandidate returns the element the next Push would overwrite,
// false if the store is not full.
func (s *BoundedStore[T]) PeekEvictionCandidate() (T, bool) {
	var (
		t = s.tail.Load()
		h = s.head.Load()
	)
	if h-t < s.capacity {
		return 0, false
	}
	return decode[T](s.slots[t%s.capacity].Load()), true
}

// Snapshot returns resident elements from oldest to newest. The counters are
// observed once and exactly that many slots are read; the read is retried if
// the tail moved meanwhile. Under a writer that keeps evicting faster than the
// copy completes, the last attempt is returned as is: its length is consistent
// but its oldest entries may already belong to newer positions.
func (s *BoundedStore[T]) Snapshot() []T {
	var out []T
	for i := 0; i < snapshotAttempts; i++ {
		t := s.tail.Load()
		h := s.head.Load()
		if t >= h {
			return []T{}
		}
		// the writer may have lapped a stale tail
		if h-t > s.capacity {
			t = h - s.capacity
		}

		out = make([]T, h-t)
		for j := range out {
			out[j] = decode[T](s.slots[(t+uint64(j))%s.capacity].Load())
		}
		if s.tail.Load() <= t {
			return out
		}
	}
	return out
}

// Len returns the number of resident elements.
func (s *BoundedStore[T]) Len() int {
	t := s.tail.Load()
	h := s.head.Load()
	if t >= h {
		return 0
	}
	if n := h - t; n < s.capacity {
		return int(n)
	}
	return int(s.capacity)
}

func (s *BoundedStore[T]) Cap() int { return int(s.capacity) }

func (s *BoundedStore[T]) IsFull() bool { return s.Len() == int(s.capacity) }

func (s *BoundedStore[T]) IsEmpty() bool { return s.Len() == 0 }

func encode[T Element](v T) uint64 { return math.Float64bits(float64(v)) }

func decode[T Element](bits uint64) T { return T(math.Float64frombits(bits)) }
