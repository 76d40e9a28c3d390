package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/textileio/go-tempwindow/generator"
)

var log = logging.Logger("config")

// ErrConfigNotFound is returned with the defaults when the config file
// cannot be read. Callers treat it as recoverable.
var ErrConfigNotFound = errors.New("config file not found")

// RelativePath locates the config file relative to the executable directory.
const RelativePath = "../share/temperature_measurement/config/temperature_config.txt"

// Config holds the simulation parameters.
type Config struct {
	BaseOffset       float64
	Amplitude        float64
	DaysInYear       float64
	MinTemp          float64
	MaxTemp          float64
	DriftFactor      float64
	BufferSize       int
	SimulationValues int
}

func Default() Config {
	return Config{
		BaseOffset:       15,
		Amplitude:        10,
		DaysInYear:       365,
		MinTemp:          -20,
		MaxTemp:          50,
		DriftFactor:      0.1,
		BufferSize:       50,
		SimulationValues: 1000,
	}
}

// DefaultPath returns RelativePath resolved against the directory of the
// running executable.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return RelativePath
	}
	return filepath.Join(filepath.Dir(exe), RelativePath)
}

// Load reads a config file of "key value" lines. Blank lines and lines
// starting with '#' are skipped, so are unknown keys and values that are not
// numbers. Keys missing from the file keep their defaults. If the file cannot
// be opened, Load returns the defaults along with ErrConfigNotFound.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigNotFound, path, err)
	}
	defer f.Close()

	var (
		scanner = bufio.NewScanner(f)
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			log.Debugf("%s:%d: skipping line without value", path, lineNum)
			continue
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			log.Debugf("%s:%d: skipping malformed value %q", path, lineNum, fields[1])
			continue
		}
		if !cfg.set(fields[0], value) {
			log.Debugf("%s:%d: ignoring unknown key %q", path, lineNum, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return Default(), fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) set(key string, value float64) bool {
	switch key {
	case "baseOffset":
		c.BaseOffset = value
	case "amplitude":
		c.Amplitude = value
	case "daysInYear":
		c.DaysInYear = value
	case "minTemp":
		c.MinTemp = value
	case "maxTemp":
		c.MaxTemp = value
	case "driftFactor":
		c.DriftFactor = value
	case "bufferSize":
		c.BufferSize = int(value)
	case "simulationValues":
		c.SimulationValues = int(value)
	default:
		return false
	}
	return true
}

// Validate reports every inconsistent parameter at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.BufferSize < 1 {
		result = multierror.Append(result, fmt.Errorf("bufferSize must be at least 1, got %d", c.BufferSize))
	}
	if c.MinTemp > c.MaxTemp {
		result = multierror.Append(result, fmt.Errorf("minTemp %v exceeds maxTemp %v", c.MinTemp, c.MaxTemp))
	}
	if c.DaysInYear <= 0 {
		result = multierror.Append(result, fmt.Errorf("daysInYear must be positive, got %v", c.DaysInYear))
	}
	if c.SimulationValues < 0 {
		result = multierror.Append(result, fmt.Errorf("simulationValues must not be negative, got %d", c.SimulationValues))
	}
	return result.ErrorOrNil()
}

// Generator returns the parameters of the seasonal generator.
func (c Config) Generator() generator.Params {
	return generator.Params{
		BaseOffset:  c.BaseOffset,
		Amplitude:   c.Amplitude,
		DaysInYear:  c.DaysInYear,
		MinTemp:     c.MinTemp,
		MaxTemp:     c.MaxTemp,
		DriftFactor: c.DriftFactor,
	}
}
