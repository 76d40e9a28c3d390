package pipeline

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/sjson"
	core "github.com/textileio/go-tempwindow/core/window"
)

// Result summarizes a run.
type Result struct {
	RunID      ulid.ULID
	Strategy   string
	Capacity   int
	Iterations int

	Pushed   uint64
	Consumed uint64
	Evicted  uint64

	// Samples left in the window, non-zero only for an interrupted run.
	Remaining int

	// Extrema of the window when the producer finished.
	Final    core.Extrema
	HasFinal bool

	Elapsed time.Duration
}

// JSON renders the result as a report document. Extrema are null when the
// final window was empty.
func (r Result) JSON() ([]byte, error) {
	var (
		doc = []byte(`{}`)
		err error
	)
	set := func(path string, value interface{}) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, value)
		}
	}

	set("run_id", r.RunID.String())
	set("window.strategy", r.Strategy)
	set("window.capacity", r.Capacity)
	set("samples.iterations", r.Iterations)
	set("samples.pushed", r.Pushed)
	set("samples.consumed", r.Consumed)
	set("samples.evicted", r.Evicted)
	set("samples.remaining", r.Remaining)
	if r.HasFinal {
		set("extrema.min", r.Final.Min)
		set("extrema.max", r.Final.Max)
	} else if err == nil {
		doc, err = sjson.SetRawBytes(doc, "extrema", []byte("null"))
	}
	set("elapsed_ms", r.Elapsed.Milliseconds())

	if err != nil {
		return nil, err
	}
	return doc, nil
}
