package particles

import (
	"math/rand/v2"
	"time"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type seededRNG struct{ r *rand.Rand }

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// NewSeededRNG returns a reproducible source, for tests and headless renders.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

// DefaultRNG is seeded from the wall clock.
func DefaultRNG() RandomSource {
	return NewSeededRNG(uint64(time.Now().UnixNano()))
}
