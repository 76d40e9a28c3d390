package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{
	BaseOffset:  15,
	Amplitude:   10,
	DaysInYear:  365,
	MinTemp:     -20,
	MaxTemp:     50,
	DriftFactor: 0.1,
}

func TestSeasonal_BoundsAndAverage(t *testing.T) {
	// two full seasonal periods, the sine averages out
	const n = 730
	g := NewSeasonal(testParams, rand.New(rand.NewSource(12345)))

	var total float64
	for i := 0; i < n; i++ {
		v := g.Next()
		require.GreaterOrEqual(t, v, testParams.MinTemp)
		require.LessOrEqual(t, v, testParams.MaxTemp)
		total += v
	}

	assert.Equal(t, n, g.Day())
	assert.InDelta(t, testParams.BaseOffset, total/n, 3)
}

func TestSeasonal_Clamp(t *testing.T) {
	p := testParams
	p.MinTemp, p.MaxTemp = 14, 16
	p.Amplitude = 40

	g := NewSeasonal(p, rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		v := g.Next()
		require.GreaterOrEqual(t, v, p.MinTemp)
		require.LessOrEqual(t, v, p.MaxTemp)
	}
}

func TestSeasonal_Deterministic(t *testing.T) {
	a := NewSeasonal(testParams, NewFactory(Deterministic, 7).Stream(StreamName))
	b := NewSeasonal(testParams, NewFactory(Deterministic, 7).Stream(StreamName))
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

func TestFactory_Streams(t *testing.T) {
	f := NewFactory(Deterministic, 42)
	assert.Equal(t, int64(42), f.Seed())
	assert.Same(t, f.Stream("a"), f.Stream("a"))
	assert.NotEqual(t, f.Stream("a").Int63(), f.Stream("b").Int63())

	live := NewFactory(Real, 42)
	assert.Equal(t, Real, live.Mode())
	assert.NotEqual(t, int64(42), live.Seed())
}

func TestLimit(t *testing.T) {
	l := Limit(NewSeasonal(testParams, rand.New(rand.NewSource(3))), 3)

	var count int
	for _, ok := l.Next(); ok; _, ok = l.Next() {
		count++
	}
	assert.Equal(t, 3, count)

	_, ok := Limit(NewSeasonal(testParams, rand.New(rand.NewSource(3))), 0).Next()
	assert.False(t, ok)
}
