package window

import (
	core "github.com/textileio/go-tempwindow/core/window"
	"github.com/textileio/go-tempwindow/metrics"
)

// Option configures a ConcurrentWindow.
type Option func(*options)

type options struct {
	strategy core.Strategy
	metrics  metrics.Metrics
	notify   bool
}

// WithStrategy selects the extrema strategy, StrategyDeque by default.
func WithStrategy(s core.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithMetrics reports window activity to m. Nil is ignored.
func WithMetrics(m metrics.Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithNotifier makes Ready deliver a signal after pushes, so a consumer can
// wait for data instead of sleeping a fixed interval.
func WithNotifier() Option {
	return func(o *options) {
		o.notify = true
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{
		strategy: core.StrategyDeque,
		metrics:  metrics.NoOpMetrics{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
