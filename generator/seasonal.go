package generator

import (
	"math"
	"math/rand"

	core "github.com/textileio/go-tempwindow/core/window"
)

// StreamName is the Factory stream the seasonal generator draws from.
const StreamName = "temperature"

var _ core.Generator = (*Seasonal)(nil)

// Params shape the simulated temperature curve.
type Params struct {
	BaseOffset  float64
	Amplitude   float64
	DaysInYear  float64
	MinTemp     float64
	MaxTemp     float64
	DriftFactor float64
}

// Seasonal simulates one reading per day: a random walk with integer steps
// drawn from a standard normal distribution, pulled towards a yearly sine
// around BaseOffset and clamped to [MinTemp, MaxTemp].
// Not safe for concurrent use.
type Seasonal struct {
	p       Params
	rnd     *rand.Rand
	day     int
	current float64
}

func NewSeasonal(p Params, rnd *rand.Rand) *Seasonal {
	return &Seasonal{
		p:       p,
		rnd:     rnd,
		current: p.BaseOffset,
	}
}

func (s *Seasonal) Next() float64 {
	base := s.p.BaseOffset + s.p.Amplitude*math.Sin(2*math.Pi*float64(s.day)/s.p.DaysInYear)
	s.day++

	s.current += math.Round(s.rnd.NormFloat64())
	s.current += s.p.DriftFactor * (base - s.current)

	if s.current < s.p.MinTemp {
		s.current = s.p.MinTemp
	} else if s.current > s.p.MaxTemp {
		s.current = s.p.MaxTemp
	}
	return s.current
}

// Day returns how many readings were generated.
func (s *Seasonal) Day() int { return s.day }

// Limited stops a generator after a fixed number of values.
type Limited struct {
	g         core.Generator
	remaining int
}

func Limit(g core.Generator, n int) *Limited {
	return &Limited{g: g, remaining: n}
}

// Next returns false once the limit is reached.
func (l *Limited) Next() (float64, bool) {
	if l.remaining <= 0 {
		return 0, false
	}
	l.remaining--
	return l.g.Next(), true
}
