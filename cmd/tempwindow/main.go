package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/namsral/flag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	core "github.com/textileio/go-tempwindow/core/window"
	"github.com/textileio/go-tempwindow/config"
	"github.com/textileio/go-tempwindow/generator"
	"github.com/textileio/go-tempwindow/metrics"
	"github.com/textileio/go-tempwindow/pipeline"
	"github.com/textileio/go-tempwindow/sink"
	"github.com/textileio/go-tempwindow/window"
)

var log = logging.Logger("tempwindow")

type options struct {
	configPath  string
	strategy    string
	useDeque    bool
	useNaive    bool
	output      string
	csvPath     string
	seed        int64
	poll        time.Duration
	notify      bool
	rate        float64
	metricsAddr string
	statsPeriod time.Duration
	logLevel    string
	reportPath  string
}

func parseOptions(args []string) (options, error) {
	var opts options

	// "config" is reserved by the flag package for its own config file format
	fs := flag.NewFlagSetWithEnvPrefix("tempwindow", "TEMPWINDOW", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config-file", config.DefaultPath(), "Path to the simulation config file")
	fs.StringVar(&opts.configPath, "c", config.DefaultPath(), "Shorthand for -config-file")
	fs.StringVar(&opts.strategy, "strategy", core.StrategyDeque.String(), "Extrema strategy: deque or rescan")
	fs.BoolVar(&opts.useDeque, "deque", false, "Track extrema with monotonic deques")
	fs.BoolVar(&opts.useDeque, "b", false, "Shorthand for -deque")
	fs.BoolVar(&opts.useNaive, "naive", false, "Track extrema with full rescans")
	fs.BoolVar(&opts.useNaive, "n", false, "Shorthand for -naive")
	fs.StringVar(&opts.output, "output", sink.DefaultTextFile, "Text file receiving consumed samples")
	fs.StringVar(&opts.csvPath, "csv", "", "Optional CSV file receiving consumed samples")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed, 0 seeds from the clock")
	fs.DurationVar(&opts.poll, "poll", pipeline.DefaultPollInterval, "Consumer back-off on an empty window")
	fs.BoolVar(&opts.notify, "notify", false, "Wake the consumer on push instead of polling only")
	fs.Float64Var(&opts.rate, "rate", 0, "Producer pacing in samples per second, 0 is unlimited")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.DurationVar(&opts.statsPeriod, "stats-period", 0, "Log window statistics with this period, 0 disables")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.reportPath, "report", "", "Write a JSON run report to this file, - for stdout")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.useDeque && opts.useNaive {
		return opts, errors.New("-deque and -naive are mutually exclusive")
	}
	return opts, nil
}

func (o options) resolveStrategy() (core.Strategy, error) {
	switch {
	case o.useNaive:
		return core.StrategyRescan, nil
	case o.useDeque:
		return core.StrategyDeque, nil
	default:
		return core.ParseStrategy(o.strategy)
	}
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(opts options) error {
	lvl, err := logging.LevelFromString(opts.logLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logging.SetAllLoggers(lvl)

	strategy, err := opts.resolveStrategy()
	if err != nil {
		return err
	}

	cfg := loadConfig(opts.configPath)

	log.Infof("temperature generator with %s min/max tracking", strategy)
	log.Infof("using config file: %s", opts.configPath)
	log.Infof("simulation values: %d", cfg.SimulationValues)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wopts := []window.Option{window.WithStrategy(strategy)}
	if opts.notify {
		wopts = append(wopts, window.WithNotifier())
	}
	if opts.metricsAddr != "" {
		m, shutdown, err := serveMetrics(opts.metricsAddr, strategy)
		if err != nil {
			return err
		}
		defer shutdown()
		wopts = append(wopts, window.WithMetrics(m))
	}

	w, err := window.New(cfg.BufferSize, wopts...)
	if err != nil {
		return err
	}

	out, err := openSinks(opts)
	if err != nil {
		return err
	}

	mode := generator.Real
	if opts.seed != 0 {
		mode = generator.Deterministic
	}
	rng := generator.NewFactory(mode, opts.seed)
	log.Debugf("generator seed %d", rng.Seed())
	gen := generator.NewSeasonal(cfg.Generator(), rng.Stream(generator.StreamName))

	res, runErr := pipeline.Run(ctx, w, gen, out, pipeline.Config{
		Iterations:   cfg.SimulationValues,
		PollInterval: opts.poll,
		Rate:         opts.rate,
		StatsPeriod:  opts.statsPeriod,
	})
	if err := out.Close(); err != nil {
		log.Errorf("closing sinks: %s", err)
	}
	if runErr != nil {
		return runErr
	}

	log.Desugar().Info("run summary",
		zap.String("run", res.RunID.String()),
		zap.Stringer("strategy", strategy),
		zap.Int("capacity", res.Capacity),
		zap.Uint64("pushed", res.Pushed),
		zap.Uint64("consumed", res.Consumed),
		zap.Uint64("evicted", res.Evicted),
		zap.Duration("elapsed", res.Elapsed))

	if res.HasFinal {
		fmt.Printf("Final %s: min = %v, max = %v\n", strategy, res.Final.Min, res.Final.Max)
	} else {
		fmt.Printf("Final %s: window empty\n", strategy)
	}

	return writeReport(opts.reportPath, res)
}

// loadConfig falls back to the built-in defaults when the file is missing
// or describes an inconsistent simulation.
func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		log.Warnf("%s, using defaults", err)
	case err != nil:
		log.Errorf("loading config: %s, using defaults", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Errorf("invalid config, using defaults: %s", err)
		return config.Default()
	}
	return cfg
}

func openSinks(opts options) (core.Sink, error) {
	text, err := sink.NewTextFile(opts.output)
	if err != nil {
		return nil, err
	}
	if opts.csvPath == "" {
		return text, nil
	}

	csv, err := sink.NewCSV(opts.csvPath)
	if err != nil {
		text.Close()
		return nil, fmt.Errorf("opening csv output: %w", err)
	}
	return sink.NewMulti(text, csv), nil
}

func serveMetrics(addr string, strategy core.Strategy) (metrics.Metrics, func(), error) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg, strategy.String())
	if err != nil {
		return nil, nil, fmt.Errorf("registering metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Infof("serving metrics on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %s", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warnf("shutting down metrics server: %s", err)
		}
	}
	return m, shutdown, nil
}

func writeReport(path string, res pipeline.Result) error {
	if path == "" {
		return nil
	}
	doc, err := res.JSON()
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	doc = append(doc, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
