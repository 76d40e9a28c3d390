package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	core "github.com/textileio/go-tempwindow/core/window"
)

// residentSlice drives a RescanTracker the way ConcurrentWindow does: the
// departing element leaves the source before the tracker is told about it.
type residentSlice struct {
	capacity int
	data     []float64
	tr       *RescanTracker
}

func newResidentSlice(capacity int) *residentSlice {
	r := &residentSlice{capacity: capacity}
	r.tr = NewRescanTracker(func() []float64 { return r.data })
	return r
}

func (r *residentSlice) push(v float64) {
	if len(r.data) == r.capacity {
		evicted := r.data[0]
		r.data = r.data[1:]
		r.tr.OnInsert(v, evicted, true)
	} else {
		r.tr.OnInsert(v, 0, false)
	}
	r.data = append(r.data, v)
}

func (r *residentSlice) pop() {
	v := r.data[0]
	r.data = r.data[1:]
	r.tr.OnRemove(v)
}

func TestRescanTracker_Extrema(t *testing.T) {
	r := newResidentSlice(3)

	_, ok := r.tr.Extrema()
	assert.False(t, ok)

	r.push(1)
	r.push(2)
	r.push(3)
	assert.Equal(t, float64(1), r.tr.Min())
	assert.Equal(t, float64(3), r.tr.Max())
	assert.Zero(t, r.tr.Rescans())

	// evicts the minimum
	r.push(4)
	ext, ok := r.tr.Extrema()
	assert.True(t, ok)
	assert.Equal(t, core.Extrema{Min: 2, Max: 4}, ext)
	assert.Equal(t, uint64(1), r.tr.Rescans())

	// pops the minimum
	r.pop()
	assert.Equal(t, float64(3), r.tr.Min())
	assert.Equal(t, uint64(2), r.tr.Rescans())
}

func TestRescanTracker_NoRescanForInteriorValues(t *testing.T) {
	r := newResidentSlice(4)
	for _, v := range []float64{5, 1, 3, 9} {
		r.push(v)
	}

	r.pop()
	assert.Zero(t, r.tr.Rescans())
	assert.Equal(t, float64(1), r.tr.Min())
	assert.Equal(t, float64(9), r.tr.Max())
}

func TestRescanTracker_Drain(t *testing.T) {
	r := newResidentSlice(2)
	r.push(7)
	r.push(7)
	r.pop()
	assert.Equal(t, float64(7), r.tr.Min())
	assert.Equal(t, float64(7), r.tr.Max())

	r.pop()
	_, ok := r.tr.Extrema()
	assert.False(t, ok)
	assert.Equal(t, core.EmptyMin, r.tr.Min())
	assert.Equal(t, core.EmptyMax, r.tr.Max())

	r.push(1)
	r.tr.Reset()
	_, ok = r.tr.Extrema()
	assert.False(t, ok)
}
