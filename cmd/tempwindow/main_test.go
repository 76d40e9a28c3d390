package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	core "github.com/textileio/go-tempwindow/core/window"
	"github.com/textileio/go-tempwindow/config"
)

func TestParseOptions(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		strategy core.Strategy
		wantErr  bool
	}{
		{name: "default", args: nil, strategy: core.StrategyDeque},
		{name: "naive", args: []string{"-naive"}, strategy: core.StrategyRescan},
		{name: "naive short", args: []string{"-n"}, strategy: core.StrategyRescan},
		{name: "buffer short", args: []string{"-b"}, strategy: core.StrategyDeque},
		{name: "strategy name", args: []string{"-strategy", "rescan"}, strategy: core.StrategyRescan},
		{name: "strategy alias", args: []string{"-strategy", "buffer"}, strategy: core.StrategyDeque},
		{name: "conflict", args: []string{"-b", "-n"}, wantErr: true},
		{name: "unknown flag", args: []string{"-frobnicate"}, wantErr: true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			strategy, err := opts.resolveStrategy()
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, strategy)
		})
	}
}

func TestParseOptions_Values(t *testing.T) {
	opts, err := parseOptions([]string{
		"-c", "/tmp/conf.txt",
		"-output", "out.txt",
		"-seed", "9",
		"-poll", "5ms",
		"-notify",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/conf.txt", opts.configPath)
	assert.Equal(t, "out.txt", opts.output)
	assert.Equal(t, int64(9), opts.seed)
	assert.Equal(t, 5*time.Millisecond, opts.poll)
	assert.True(t, opts.notify)

	_, err = options{strategy: "fastest"}.resolveStrategy()
	assert.ErrorIs(t, err, core.ErrUnknownStrategy)
}

func TestLoadConfig_FallsBack(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, config.Default(), loadConfig(filepath.Join(dir, "absent.txt")))

	invalid := filepath.Join(dir, "invalid.txt")
	require.NoError(t, os.WriteFile(invalid, []byte("bufferSize 0\n"), 0644))
	assert.Equal(t, config.Default(), loadConfig(invalid))

	valid := filepath.Join(dir, "valid.txt")
	require.NoError(t, os.WriteFile(valid, []byte("bufferSize 12\n"), 0644))
	assert.Equal(t, 12, loadConfig(valid).BufferSize)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "temperature_config.txt")
	require.NoError(t, os.WriteFile(conf, []byte("bufferSize 10\nsimulationValues 300\n"), 0644))

	opts, err := parseOptions([]string{
		"-config-file", conf,
		"-naive",
		"-seed", "5",
		"-output", filepath.Join(dir, "out.txt"),
		"-csv", filepath.Join(dir, "out.csv"),
		"-report", filepath.Join(dir, "report.json"),
	})
	require.NoError(t, err)
	require.NoError(t, run(opts))

	report, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	assert.Equal(t, "rescan", gjson.GetBytes(report, "window.strategy").String())
	assert.Equal(t, int64(10), gjson.GetBytes(report, "window.capacity").Int())
	assert.Equal(t, int64(300), gjson.GetBytes(report, "samples.pushed").Int())

	consumed := gjson.GetBytes(report, "samples.consumed").Int()
	text, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	lines := 0
	for _, b := range text {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, int(consumed), lines)
}
