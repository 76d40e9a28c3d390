package test

import (
	"math/rand"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	core "github.com/textileio/go-tempwindow/core/window"
)

var windowSuite = map[string]func(w core.Window) func(*testing.T){
	"Overwrite":           testWindowOverwrite,
	"DuplicateExtremum":   testWindowDuplicateExtremum,
	"PopPushInterleaving": testWindowPopPushInterleaving,
	"EmptyPop":            testWindowEmptyPop,
	"MatchesBruteForce":   testWindowMatchesBruteForce,
}

// suiteCapacity is the capacity each suite window is created with.
var suiteCapacity = map[string]int{
	"Overwrite":           4,
	"DuplicateExtremum":   3,
	"PopPushInterleaving": 4,
	"EmptyPop":            2,
	"MatchesBruteForce":   7,
}

type WindowFactory func(capacity int) (core.Window, func())

func WindowTest(t *testing.T, factory WindowFactory) {
	for name, test := range windowSuite {
		// Create a new window.
		w, closeFunc := factory(suiteCapacity[name])

		// Run the test.
		t.Run(name, test(w))

		// Cleanup.
		if closeFunc != nil {
			closeFunc()
		}
	}
}

func testWindowOverwrite(w core.Window) func(t *testing.T) {
	return func(t *testing.T) {
		for i := 1; i <= 10; i++ {
			w.Push(float64(i))
			assert.LessOrEqual(t, w.Len(), w.Cap())
		}

		assert.Equal(t, []float64{7, 8, 9, 10}, w.Snapshot())
		assert.Equal(t, 4, w.Len())
		assert.Equal(t, float64(7), w.Min())
		assert.Equal(t, float64(10), w.Max())

		v, ok := w.Peek()
		require.True(t, ok)
		assert.Equal(t, float64(7), v)
	}
}

func testWindowDuplicateExtremum(w core.Window) func(t *testing.T) {
	return func(t *testing.T) {
		for i := 0; i < 3; i++ {
			w.Push(5)
		}

		v, ok := w.Pop()
		require.True(t, ok)
		assert.Equal(t, float64(5), v)
		assert.Equal(t, float64(5), w.Min())
		assert.Equal(t, float64(5), w.Max())

		// evicting a duplicate keeps the remaining ones
		w.Push(5)
		w.Push(7)
		assert.Equal(t, []float64{5, 5, 7}, w.Snapshot())
		assert.Equal(t, float64(5), w.Min())
		assert.Equal(t, float64(7), w.Max())
	}
}

func testWindowPopPushInterleaving(w core.Window) func(t *testing.T) {
	return func(t *testing.T) {
		for _, v := range []float64{10, 20, 30, 40} {
			w.Push(v)
		}

		v, ok := w.Pop()
		require.True(t, ok)
		assert.Equal(t, float64(10), v)
		assert.Equal(t, []float64{20, 30, 40}, w.Snapshot())
		assert.Equal(t, float64(20), w.Min())

		w.Push(50)
		assert.Equal(t, []float64{20, 30, 40, 50}, w.Snapshot())

		ext, ok := w.Extrema()
		require.True(t, ok)
		assert.Equal(t, core.Extrema{Min: 20, Max: 50}, ext)
	}
}

func testWindowEmptyPop(w core.Window) func(t *testing.T) {
	return func(t *testing.T) {
		_, ok := w.Pop()
		assert.False(t, ok)
		assert.Equal(t, 0, w.Len())
		assert.Equal(t, core.EmptyMin, w.Min())
		assert.Equal(t, core.EmptyMax, w.Max())

		_, ok = w.Extrema()
		assert.False(t, ok)

		w.Push(-3)
		v, ok := w.Pop()
		require.True(t, ok)
		assert.Equal(t, float64(-3), v)

		_, ok = w.Pop()
		assert.False(t, ok)
		_, ok = w.Peek()
		assert.False(t, ok)
		assert.Empty(t, w.Snapshot())
		assert.Equal(t, core.EmptyMin, w.Min())
	}
}

func testWindowMatchesBruteForce(w core.Window) func(t *testing.T) {
	return func(t *testing.T) {
		rnd := rand.New(rand.NewSource(42))
		for i := 0; i < 2000; i++ {
			if rnd.Intn(3) == 0 {
				w.Pop()
			} else {
				// small value range to produce plenty of duplicates
				w.Push(float64(rnd.Intn(15) - 5))
			}

			data := w.Snapshot()
			require.Len(t, data, w.Len())
			if len(data) == 0 {
				require.Equal(t, core.EmptyMin, w.Min(), "step %d", i)
				require.Equal(t, core.EmptyMax, w.Max(), "step %d", i)
				continue
			}
			require.Equal(t, lo.Min(data), w.Min(), "step %d: %v", i, data)
			require.Equal(t, lo.Max(data), w.Max(), "step %d: %v", i, data)
		}
	}
}
