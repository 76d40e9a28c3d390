package window

import (
	"github.com/samber/lo"
	core "github.com/textileio/go-tempwindow/core/window"
)

var _ core.Tracker = (*RescanTracker)(nil)

// RescanTracker keeps only the current extrema. When an element equal to
// either extremum leaves the window, both are recomputed from the resident
// elements returned by source. Worst case O(capacity) per update, O(1) when
// extrema rarely leave the window.
//
// source must return the resident elements as they are after the departing
// element left and before the new one is visible.
type RescanTracker struct {
	source   func() []float64
	min, max float64
	n        int
	rescans  uint64
}

func NewRescanTracker(source func() []float64) *RescanTracker {
	return &RescanTracker{
		source: source,
		min:    core.EmptyMin,
		max:    core.EmptyMax,
	}
}

func (r *RescanTracker) OnInsert(v, evicted float64, hasEvicted bool) {
	if hasEvicted {
		r.OnRemove(evicted)
	}
	r.n++
	r.fold(v)
}

func (r *RescanTracker) OnRemove(v float64) {
	if r.n > 0 {
		r.n--
	}
	// compare by value: a duplicate of the extremum may still be resident,
	// the rescan finds it
	if v == r.min || v == r.max {
		r.rescan()
	}
}

func (r *RescanTracker) fold(v float64) {
	if v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}
}

func (r *RescanTracker) rescan() {
	r.rescans++
	r.min, r.max = core.EmptyMin, core.EmptyMax

	data := r.source()
	if len(data) == 0 {
		return
	}
	r.min, r.max = lo.Min(data), lo.Max(data)
}

func (r *RescanTracker) Min() float64 { return r.min }

func (r *RescanTracker) Max() float64 { return r.max }

func (r *RescanTracker) Extrema() (core.Extrema, bool) {
	return core.Extrema{Min: r.min, Max: r.max}, r.n > 0
}

func (r *RescanTracker) Reset() {
	r.min, r.max = core.EmptyMin, core.EmptyMax
	r.n = 0
}

// Rescans returns how many full rescans were performed.
func (r *RescanTracker) Rescans() uint64 { return r.rescans }
