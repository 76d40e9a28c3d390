package window

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// StatsTracker periodically samples a window and logs its size, extrema,
// quantiles and push/pop rates.
type StatsTracker struct {
	w         *ConcurrentWindow
	quantiles []float64
	period    time.Duration
	log       func(format string, args ...interface{})
	last      Counters
}

func NewStatsTracker(w *ConcurrentWindow, quantiles []float64, samplingPeriod time.Duration, log func(format string, args ...interface{})) *StatsTracker {
	return &StatsTracker{
		w:         w,
		quantiles: quantiles,
		period:    samplingPeriod,
		log:       log,
	}
}

// Run samples every period until ctx is done.
func (s *StatsTracker) Run(ctx context.Context) {
	t := time.NewTicker(s.period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.log("window statistics: %s", s.Sample())
		}
	}
}

// Sample renders the current statistics and resets the rate counters.
func (s *StatsTracker) Sample() string {
	var (
		res     strings.Builder
		current = s.w.Counters()
		pushed  = current.Pushed - s.last.Pushed
		popped  = current.Popped - s.last.Popped
		evicted = current.Evicted - s.last.Evicted
	)
	s.last = current

	res.WriteString(fmt.Sprintf("size: %d/%d, ", s.w.Len(), s.w.Cap()))
	res.WriteString(fmt.Sprintf("push rate: %f /sec (%d for %v), ", float64(pushed)/s.period.Seconds(), pushed, s.period))
	res.WriteString(fmt.Sprintf("pop rate: %f /sec (%d for %v), ", float64(popped)/s.period.Seconds(), popped, s.period))
	res.WriteString(fmt.Sprintf("evicted: %d, ", evicted))

	res.WriteString("samples: [")
	if ext, ok := s.w.Extrema(); ok {
		res.WriteString(fmt.Sprintf("min: %v, max: %v", ext.Min, ext.Max))
	} else {
		res.WriteString("empty")
	}
	for i, v := range Quantiles(s.w.Snapshot(), s.quantiles) {
		res.WriteString(fmt.Sprintf(" / q%d: %v", int(s.quantiles[i]*100), v))
	}
	res.WriteByte(']')

	return res.String()
}

// Quantiles returns the requested quantiles of data, nil if either is empty.
// data is not modified.
func Quantiles(data, qs []float64) []float64 {
	if len(qs) == 0 || len(data) == 0 {
		return nil
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	results := make([]float64, len(qs))
	for i := 0; i < len(qs); i++ {
		idx := int(math.Min(math.Round(qs[i]*float64(len(sorted))), float64(len(sorted)-1)))
		results[i] = sorted[idx]
	}
	return results
}
