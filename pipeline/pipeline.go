package pipeline

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	logging "github.com/ipfs/go-log/v2"
	"github.com/oklog/ulid/v2"
	core "github.com/textileio/go-tempwindow/core/window"
	"github.com/textileio/go-tempwindow/generator"
	"github.com/textileio/go-tempwindow/window"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var log = logging.Logger("pipeline")

// DefaultPollInterval is how long the consumer sleeps on an empty window.
const DefaultPollInterval = 10 * time.Millisecond

// Config controls a single run.
type Config struct {
	// Number of samples the producer generates.
	Iterations int

	// Consumer back-off on an empty window. With a notifier window this is
	// the upper bound of the wait.
	PollInterval time.Duration

	// Producer pacing in samples per second, unlimited if zero.
	Rate float64

	// Period of the window statistics log, disabled if zero.
	StatsPeriod time.Duration

	Quantiles []float64
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if len(c.Quantiles) == 0 {
		c.Quantiles = []float64{0.5, 0.9}
	}
	return c
}

// Run streams Iterations samples from gen through w into s with one
// producer and one consumer goroutine, and returns once the consumer has
// drained the window or ctx is cancelled. The sink is not closed.
func Run(ctx context.Context, w *window.ConcurrentWindow, gen core.Generator, s core.Sink, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()

	var (
		res = Result{
			RunID:      ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(crand.Reader, 0)),
			Strategy:   w.Strategy().String(),
			Capacity:   w.Cap(),
			Iterations: cfg.Iterations,
		}
		done     atomic.Bool
		consumed uint64
		started  = time.Now()
	)

	log.Infof("run %s: streaming %s samples through a %s window of %d",
		res.RunID, humanize.Comma(int64(cfg.Iterations)), res.Strategy, res.Capacity)

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	if cfg.StatsPeriod > 0 {
		st := window.NewStatsTracker(w, cfg.Quantiles, cfg.StatsPeriod, log.Infof)
		go st.Run(statsCtx)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer done.Store(true)
		return produce(gctx, w, generator.Limit(gen, cfg.Iterations), cfg.Rate, &res)
	})

	g.Go(func() error {
		n, err := consume(gctx, w, s, cfg.PollInterval, &done)
		consumed = n
		return err
	})

	err := g.Wait()
	stopStats()

	c := w.Counters()
	res.Pushed = c.Pushed
	res.Consumed = consumed
	res.Evicted = c.Evicted
	res.Elapsed = time.Since(started)
	res.Remaining = w.Len()

	if err != nil {
		log.Errorf("run %s failed after %s samples: %s", res.RunID, humanize.Comma(int64(res.Pushed)), err)
		return res, err
	}

	log.Infof("run %s finished in %v: pushed %s, consumed %s, evicted %s",
		res.RunID, res.Elapsed, humanize.Comma(int64(res.Pushed)),
		humanize.Comma(int64(res.Consumed)), humanize.Comma(int64(res.Evicted)))
	return res, nil
}

func produce(ctx context.Context, w *window.ConcurrentWindow, gen *generator.Limited, samplesPerSec float64, res *Result) error {
	var limiter *rate.Limiter
	if samplesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(samplesPerSec), 1)
	}

	for v, ok := gen.Next(); ok; v, ok = gen.Next() {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("pacing producer: %w", err)
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		w.Push(v)
	}

	// extrema of the last window produced, before the consumer drains it
	res.Final, res.HasFinal = w.Extrema()
	log.Debugf("producer done, final window extrema %+v", res.Final)
	return nil
}

func consume(ctx context.Context, w *window.ConcurrentWindow, s core.Sink, poll time.Duration, done *atomic.Bool) (uint64, error) {
	var (
		n     uint64
		timer = time.NewTimer(poll)
	)
	defer timer.Stop()

	for {
		// done must be observed before the failed pop, otherwise samples
		// pushed in between would be lost
		finished := done.Load()

		if v, ok := w.Pop(); ok {
			if err := s.Accept(v); err != nil {
				return n, fmt.Errorf("sink rejected sample %d: %w", n+1, err)
			}
			n++
			continue
		}
		if finished {
			return n, nil
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(poll)

		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case <-w.Ready():
		case <-timer.C:
		}
	}
}
