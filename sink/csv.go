package sink

import (
	"time"

	core "github.com/textileio/go-tempwindow/core/window"
	"github.com/textileio/go-tempwindow/csvwriter"
)

var _ core.Sink = (*CSV)(nil)

// CSV records each sample with its sequence number and consumption time.
type CSV struct {
	w   *csvwriter.CSVWriter
	seq uint64
	now func() time.Time
}

func NewCSV(path string) (*CSV, error) {
	w, err := csvwriter.NewCSVWriter(path)
	if err != nil {
		return nil, err
	}
	return &CSV{w: w, now: time.Now}, nil
}

func (c *CSV) Accept(v float64) error {
	c.seq++
	return c.w.Write(csvwriter.SampleRecord{
		Seq:       c.seq,
		Timestamp: c.now(),
		Value:     v,
	})
}

func (c *CSV) Close() error {
	return c.w.Close()
}
