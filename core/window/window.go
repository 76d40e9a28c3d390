package window

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidCapacity indicates a window or store was configured to hold no elements.
	ErrInvalidCapacity = errors.New("capacity must be at least 1")

	// ErrUnknownStrategy indicates an extrema strategy name that cannot be resolved.
	ErrUnknownStrategy = errors.New("unknown extrema strategy")
)

type (
	// Extrema is the minimum and maximum of the resident elements.
	Extrema struct {
		Min, Max float64
	}

	// Strategy selects how window extrema are maintained.
	Strategy uint8
)

const (
	// StrategyDeque keeps two monotonic deques, amortized O(1) per update.
	StrategyDeque Strategy = iota
	// StrategyRescan rescans resident elements when an extremum leaves the window.
	StrategyRescan
)

// Sentinels reported by Min and Max of an empty window.
var (
	EmptyMin = math.Inf(1)
	EmptyMax = math.Inf(-1)
)

func (s Strategy) String() string {
	switch s {
	case StrategyDeque:
		return "deque"
	case StrategyRescan:
		return "rescan"
	default:
		return "unknown"
	}
}

// ParseStrategy resolves a strategy by name. "buffer" and "naive" are
// accepted as aliases of deque and rescan.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "deque", "buffer":
		return StrategyDeque, nil
	case "rescan", "naive":
		return StrategyRescan, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Tracker maintains the extrema of exactly the elements resident in a window.
type Tracker interface {
	// Fold a newly pushed value. If the push evicted the oldest element,
	// hasEvicted is set and the tracker restores correctness for the
	// surviving elements before folding v.
	OnInsert(v, evicted float64, hasEvicted bool)

	// Account for the oldest element leaving the window by an explicit pop.
	OnRemove(v float64)

	// Current minimum, EmptyMin if nothing is resident.
	Min() float64

	// Current maximum, EmptyMax if nothing is resident.
	Max() float64

	// Both extrema and whether any element is resident.
	Extrema() (Extrema, bool)

	// Drop all tracked state.
	Reset()
}

// Store is a fixed capacity FIFO that overwrites its oldest element when full.
type Store interface {
	// Append v, returning the overwritten element if the store was full.
	Push(v float64) (evicted float64, ok bool)
	Pop() (float64, bool)
	Peek() (float64, bool)
	// Element the next Push would overwrite, false if not full.
	PeekEvictionCandidate() (float64, bool)
	Snapshot() []float64
	Len() int
	Cap() int
}

// Window is a bounded FIFO of samples with window extrema available at all times.
// One producer and one consumer may use it concurrently.
type Window interface {
	// Append a sample, evicting the oldest one if the window is full.
	Push(v float64)

	// Remove and return the oldest sample, false if the window is empty.
	Pop() (float64, bool)

	// Return the oldest sample without removing it.
	Peek() (float64, bool)

	Min() float64
	Max() float64
	Extrema() (Extrema, bool)

	// Resident samples, oldest first.
	Snapshot() []float64

	Len() int
	Cap() int
}

// Generator produces the sample stream.
type Generator interface {
	Next() float64
}

// Sink consumes samples drained from a window.
type Sink interface {
	Accept(v float64) error
	Close() error
}
