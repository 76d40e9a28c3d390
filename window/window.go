package window

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	logging "github.com/ipfs/go-log/v2"
	core "github.com/textileio/go-tempwindow/core/window"
	"github.com/textileio/go-tempwindow/metrics"
)

var log = logging.Logger("window")

var _ core.Window = (*ConcurrentWindow)(nil)

// ConcurrentWindow is a bounded sample window with its extrema, safe for one
// producer and one consumer running in parallel.
//
// Slot writes and index publication are lock-free (see BoundedStore). The
// mutex guards only the tracker together with the tail moves that feed it, so
// the tracker sees every departure in FIFO order and every insert before the
// matching element becomes poppable. The extrema are republished into atomics
// after each update: Min and Max never block but may reflect the state just
// before or just after a concurrent push or pop.
type ConcurrentWindow struct {
	store    *BoundedStore[float64]
	strategy core.Strategy
	metrics  metrics.Metrics

	mu      sync.Mutex
	tracker core.Tracker

	// sample between reserve and commit, guarded by mu
	pending    float64
	hasPending bool

	min, max atomic.Uint64

	pushed, popped, evicted, rejected atomic.Uint64

	ready chan struct{}
}

// Counters of window activity since creation.
type Counters struct {
	Pushed, Popped, Evicted, Rejected uint64
}

func New(capacity int, opts ...Option) (*ConcurrentWindow, error) {
	o := applyOptions(opts...)

	store, err := NewBoundedStore[float64](capacity)
	if err != nil {
		return nil, fmt.Errorf("creating window store: %w", err)
	}

	w := &ConcurrentWindow{
		store:    store,
		strategy: o.strategy,
		metrics:  o.metrics,
	}

	switch o.strategy {
	case core.StrategyDeque:
		w.tracker = NewDequeTracker()
	case core.StrategyRescan:
		w.tracker = NewRescanTracker(w.resident)
	default:
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownStrategy, o.strategy)
	}

	if o.notify {
		w.ready = make(chan struct{}, 1)
	}
	w.publishExtrema()

	log.Debugf("created window: capacity=%d strategy=%s", capacity, o.strategy)
	return w, nil
}

// Push appends v, evicting the oldest sample when full. NaN samples are
// rejected: they compare unequal to everything and would corrupt the
// extrema. Producer side only.
func (w *ConcurrentWindow) Push(v float64) {
	if math.IsNaN(v) {
		w.rejected.Add(1)
		log.Debugf("rejected NaN sample")
		return
	}

	hasEvicted, rescanned := w.reserve(v)
	w.commit(v)

	w.pushed.Add(1)
	w.metrics.SamplePushed()
	if hasEvicted {
		w.evicted.Add(1)
		w.metrics.SampleEvicted()
	}
	if rescanned {
		w.metrics.ExtremaRescanned()
	}
	w.observe()
	w.notify()
}

// reserve evicts if needed and folds v into the tracker. Until commit, v is
// tracked but not yet in the store, so it is kept as pending for rescans run
// by a concurrent Pop.
func (w *ConcurrentWindow) reserve(v float64) (hasEvicted, rescanned bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	evicted, hasEvicted := w.store.evictIfFull()
	rescans := w.trackerRescans()
	w.tracker.OnInsert(v, evicted, hasEvicted)
	rescanned = w.trackerRescans() != rescans
	w.pending, w.hasPending = v, true
	w.publishExtrema()
	return hasEvicted, rescanned
}

// commit publishes v to the consumer. The slot write and head release stay
// outside the lock.
func (w *ConcurrentWindow) commit(v float64) {
	w.store.publish(v)

	w.mu.Lock()
	w.hasPending = false
	w.mu.Unlock()
}

// resident is the rescan source: stored samples plus the one being pushed.
// Must be called with mu held.
func (w *ConcurrentWindow) resident() []float64 {
	data := w.store.Snapshot()
	if w.hasPending {
		// may duplicate a sample already published, harmless for extrema
		data = append(data, w.pending)
	}
	return data
}

// Pop removes the oldest sample, false if the window is empty. Consumer side only.
func (w *ConcurrentWindow) Pop() (float64, bool) {
	// cheap emptiness check before contending for the lock
	if w.store.IsEmpty() {
		return 0, false
	}

	w.mu.Lock()
	v, ok := w.store.Pop()
	var rescanned bool
	if ok {
		rescans := w.trackerRescans()
		w.tracker.OnRemove(v)
		rescanned = w.trackerRescans() != rescans
		w.publishExtrema()
	}
	w.mu.Unlock()

	if !ok {
		return 0, false
	}
	w.popped.Add(1)
	w.metrics.SamplePopped()
	if rescanned {
		w.metrics.ExtremaRescanned()
	}
	w.observe()
	return v, true
}

func (w *ConcurrentWindow) Peek() (float64, bool) {
	return w.store.Peek()
}

// PeekEvictionCandidate returns the sample the next push would evict.
func (w *ConcurrentWindow) PeekEvictionCandidate() (float64, bool) {
	return w.store.PeekEvictionCandidate()
}

// Min returns the window minimum, core.EmptyMin when empty. Never blocks.
func (w *ConcurrentWindow) Min() float64 {
	return math.Float64frombits(w.min.Load())
}

// Max returns the window maximum, core.EmptyMax when empty. Never blocks.
func (w *ConcurrentWindow) Max() float64 {
	return math.Float64frombits(w.max.Load())
}

// Extrema returns a consistent min/max pair and whether the window holds
// any samples. Unlike Min and Max it takes the tracker lock.
func (w *ConcurrentWindow) Extrema() (core.Extrema, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tracker.Extrema()
}

func (w *ConcurrentWindow) Snapshot() []float64 {
	return w.store.Snapshot()
}

func (w *ConcurrentWindow) Len() int { return w.store.Len() }

func (w *ConcurrentWindow) Cap() int { return w.store.Cap() }

func (w *ConcurrentWindow) Strategy() core.Strategy { return w.strategy }

// Ready delivers a signal after pushes when the window was created
// WithNotifier. Otherwise it returns nil, which never fires.
func (w *ConcurrentWindow) Ready() <-chan struct{} { return w.ready }

func (w *ConcurrentWindow) Counters() Counters {
	return Counters{
		Pushed:   w.pushed.Load(),
		Popped:   w.popped.Load(),
		Evicted:  w.evicted.Load(),
		Rejected: w.rejected.Load(),
	}
}

// publishExtrema must be called with mu held.
func (w *ConcurrentWindow) publishExtrema() {
	w.min.Store(math.Float64bits(w.tracker.Min()))
	w.max.Store(math.Float64bits(w.tracker.Max()))
}

// trackerRescans must be called with mu held.
func (w *ConcurrentWindow) trackerRescans() uint64 {
	if r, ok := w.tracker.(*RescanTracker); ok {
		return r.Rescans()
	}
	return 0
}

func (w *ConcurrentWindow) observe() {
	w.metrics.WindowSize(w.store.Len())
	w.metrics.WindowExtrema(w.Min(), w.Max())
}

func (w *ConcurrentWindow) notify() {
	if w.ready == nil {
		return
	}
	select {
	case w.ready <- struct{}{}:
	default:
	}
}
