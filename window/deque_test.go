package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	core "github.com/textileio/go-tempwindow/core/window"
)

func TestDequeTracker_Squeeze(t *testing.T) {
	cases := []struct {
		name               string
		data               []float64
		minDepth, maxDepth int
		min, max           float64
	}{
		{name: "ascending", data: []float64{1, 2, 3, 4}, minDepth: 4, maxDepth: 1, min: 1, max: 4},
		{name: "descending", data: []float64{4, 3, 2, 1}, minDepth: 1, maxDepth: 4, min: 1, max: 4},
		{name: "duplicates", data: []float64{5, 5, 5}, minDepth: 3, maxDepth: 3, min: 5, max: 5},
		{name: "valley", data: []float64{3, 1, 2}, minDepth: 2, maxDepth: 2, min: 1, max: 3},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDequeTracker()
			for _, v := range tt.data {
				d.OnInsert(v, 0, false)
			}

			mins, maxs := d.depth()
			assert.Equal(t, tt.minDepth, mins)
			assert.Equal(t, tt.maxDepth, maxs)
			assert.Equal(t, tt.min, d.Min())
			assert.Equal(t, tt.max, d.Max())
		})
	}
}

func TestDequeTracker_Remove(t *testing.T) {
	d := NewDequeTracker()
	for _, v := range []float64{10, 20, 30, 40} {
		d.OnInsert(v, 0, false)
	}

	d.OnRemove(10)
	assert.Equal(t, float64(20), d.Min())
	assert.Equal(t, float64(40), d.Max())

	// evict 20 while inserting 5
	d.OnInsert(5, 20, true)
	ext, ok := d.Extrema()
	assert.True(t, ok)
	assert.Equal(t, core.Extrema{Min: 5, Max: 40}, ext)

	// removing elements that are not fronts leaves the deques alone
	d.OnRemove(30)
	assert.Equal(t, float64(5), d.Min())
	assert.Equal(t, float64(40), d.Max())

	d.OnRemove(40)
	d.OnRemove(5)
	_, ok = d.Extrema()
	assert.False(t, ok)
	assert.Equal(t, core.EmptyMin, d.Min())
	assert.Equal(t, core.EmptyMax, d.Max())
}

func TestDequeTracker_Reset(t *testing.T) {
	d := NewDequeTracker()
	d.OnInsert(1, 0, false)
	d.OnInsert(2, 0, false)
	d.Reset()

	mins, maxs := d.depth()
	assert.Zero(t, mins)
	assert.Zero(t, maxs)
	assert.Equal(t, core.EmptyMin, d.Min())
}
