// Package random owns every source of randomness used during generation.
// A run seeds one Source and threads it through factories and strategies so
// the same seed and blueprint reproduce the same records.
package random

import (
	"math"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

type Source struct {
	seed         int64
	reproducible bool
	rng          *rand.Rand
	faker        *gofakeit.Faker
}

// ConfigureDeterminism returns a Source seeded with seed. A zero seed picks a
// time-based seed; output is then valid but not reproducible.
func ConfigureDeterminism(seed int64) *Source {
	reproducible := seed != 0
	if !reproducible {
		seed = time.Now().UnixNano()
	}
	return &Source{
		seed:         seed,
		reproducible: reproducible,
		rng:          rand.New(rand.NewSource(seed)),
		faker:        gofakeit.New(uint64(seed)),
	}
}

func (s *Source) Seed() int64 { return s.seed }

func (s *Source) Reproducible() bool { return s.reproducible }

func (s *Source) Faker() *gofakeit.Faker { return s.faker }

// Intn returns a value in [0, n).
func (s *Source) Intn(n int) int { return s.rng.Intn(n) }

// IntRange returns a value in [min, max]. Any pair of bounds is accepted;
// spans wider than MaxInt are drawn from the full 64-bit stream.
func (s *Source) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	span := uint64(max) - uint64(min)
	if span < math.MaxInt64 {
		return min + s.rng.Intn(int(span)+1)
	}
	if span == math.MaxUint64 {
		return int(s.rng.Uint64())
	}
	// rejection keeps the draw uniform over span+1 values
	for {
		if v := s.rng.Uint64(); v <= span {
			return int(uint64(min) + v)
		}
	}
}

func (s *Source) Float64() float64 { return s.rng.Float64() }

// UUID draws a version 4 UUID from the seeded stream.
func (s *Source) UUID() (uuid.UUID, error) {
	return uuid.NewRandomFromReader(s.rng)
}
