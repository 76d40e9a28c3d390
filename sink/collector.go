package sink

import (
	"sync"

	core "github.com/textileio/go-tempwindow/core/window"
)

var _ core.Sink = (*Collector)(nil)

// Collector keeps accepted samples in memory.
type Collector struct {
	mu     sync.Mutex
	values []float64
	closed bool
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Accept(v float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
	return nil
}

func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Values returns a copy of the accepted samples in order.
func (c *Collector) Values() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.values...)
}

func (c *Collector) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
