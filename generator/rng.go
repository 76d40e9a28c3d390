package generator

import (
	"hash/fnv"
	"math/rand"
	"sync"
	"time"
)

type Mode int

const (
	// Deterministic derives every stream from a fixed seed, runs are reproducible.
	Deterministic Mode = iota
	// Real seeds once from the wall clock.
	Real
)

// Factory hands out named random streams derived from one base seed, so
// independent consumers of randomness do not perturb each other.
type Factory struct {
	baseSeed int64
	mode     Mode

	mu      sync.Mutex
	streams map[string]*rand.Rand
}

func NewFactory(mode Mode, seed int64) *Factory {
	if mode == Real {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		baseSeed: seed,
		mode:     mode,
		streams:  make(map[string]*rand.Rand),
	}
}

// Stream returns the named stream, creating it on first use. The returned
// source is not safe for concurrent use.
func (f *Factory) Stream(name string) *rand.Rand {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.streams[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(deriveSeed(f.baseSeed, name)))
	f.streams[name] = r
	return r
}

func (f *Factory) Seed() int64 { return f.baseSeed }

func (f *Factory) Mode() Mode { return f.mode }

func deriveSeed(base int64, name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64()) ^ base
}
