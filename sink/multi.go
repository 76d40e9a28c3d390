package sink

import (
	"github.com/hashicorp/go-multierror"
	core "github.com/textileio/go-tempwindow/core/window"
)

var _ core.Sink = (Multi)(nil)

// Multi hands every sample to all of its sinks. A failing sink does not
// stop the others; errors are aggregated.
type Multi []core.Sink

func NewMulti(sinks ...core.Sink) Multi {
	return Multi(sinks)
}

func (m Multi) Accept(v float64) error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Accept(v); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (m Multi) Close() error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
