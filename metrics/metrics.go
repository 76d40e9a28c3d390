package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "tempwindow"
	subsystem = "window"
)

// Metrics receives window activity. Implementations must be safe for
// concurrent use by the producer and the consumer.
type Metrics interface {
	SamplePushed()
	SamplePopped()
	SampleEvicted()
	ExtremaRescanned()
	WindowSize(n int)
	WindowExtrema(min, max float64)
}

type NoOpMetrics struct{}

func (n NoOpMetrics) SamplePushed() {}

func (n NoOpMetrics) SamplePopped() {}

func (n NoOpMetrics) SampleEvicted() {}

func (n NoOpMetrics) ExtremaRescanned() {}

func (n NoOpMetrics) WindowSize(int) {}

func (n NoOpMetrics) WindowExtrema(float64, float64) {}

var _ Metrics = (*Prometheus)(nil)

// Prometheus exports window activity as counters and gauges labelled with
// the extrema strategy.
type Prometheus struct {
	pushed, popped, evicted, rescans prom.Counter
	size, min, max                   prom.Gauge
}

func NewPrometheus(reg prom.Registerer, strategy string) (*Prometheus, error) {
	labels := prom.Labels{"strategy": strategy}
	counter := func(name, help string) prom.Counter {
		return prom.NewCounter(prom.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	gauge := func(name, help string) prom.Gauge {
		return prom.NewGauge(prom.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	p := &Prometheus{
		pushed:  counter("samples_pushed_total", "Total number of samples pushed by the producer"),
		popped:  counter("samples_popped_total", "Total number of samples popped by the consumer"),
		evicted: counter("samples_evicted_total", "Total number of samples overwritten before being consumed"),
		rescans: counter("extrema_rescans_total", "Total number of full window rescans for extrema"),
		size:    gauge("size", "Current number of samples in the window"),
		min:     gauge("min", "Current window minimum"),
		max:     gauge("max", "Current window maximum"),
	}

	for _, c := range []prom.Collector{p.pushed, p.popped, p.evicted, p.rescans, p.size, p.min, p.max} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) SamplePushed() { p.pushed.Inc() }

func (p *Prometheus) SamplePopped() { p.popped.Inc() }

func (p *Prometheus) SampleEvicted() { p.evicted.Inc() }

func (p *Prometheus) ExtremaRescanned() { p.rescans.Inc() }

func (p *Prometheus) WindowSize(n int) { p.size.Set(float64(n)) }

// WindowExtrema keeps the last known extrema when the window drains.
func (p *Prometheus) WindowExtrema(min, max float64) {
	if min > max {
		return
	}
	p.min.Set(min)
	p.max.Set(max)
}
