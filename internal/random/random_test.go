package random

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(s *Source) (int, string, string) {
	u, _ := s.UUID()
	return s.Intn(1000), s.Faker().Name(), u.String()
}

func TestSameSeedSameStream(t *testing.T) {
	a1, a2, a3 := draw(ConfigureDeterminism(42))
	b1, b2, b3 := draw(ConfigureDeterminism(42))
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)
	assert.Equal(t, a3, b3)
}

func TestZeroSeedIsNotReproducible(t *testing.T) {
	s := ConfigureDeterminism(0)
	assert.False(t, s.Reproducible())
	assert.NotZero(t, s.Seed())

	u, err := s.UUID()
	require.NoError(t, err)
	assert.Equal(t, 4, int(u.Version()))
}

func TestIntRangeBounds(t *testing.T) {
	s := ConfigureDeterminism(7)
	for i := 0; i < 200; i++ {
		v := s.IntRange(3, 5)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 5)
	}
	assert.Equal(t, 9, s.IntRange(9, 9))
}

func TestIntRangeExtremeBounds(t *testing.T) {
	s := ConfigureDeterminism(13)
	bounds := [][2]int{
		{0, math.MaxInt64},
		{math.MinInt64, math.MaxInt64},
		{math.MinInt64, 0},
		{math.MinInt64 + 1, math.MaxInt64},
	}
	for _, b := range bounds {
		for i := 0; i < 100; i++ {
			v := s.IntRange(b[0], b[1])
			if v < b[0] || v > b[1] {
				t.Fatalf("Expected value in [%d, %d], got %d", b[0], b[1], v)
			}
		}
	}

	a, c := ConfigureDeterminism(5), ConfigureDeterminism(5)
	assert.Equal(t, a.IntRange(math.MinInt64, math.MaxInt64), c.IntRange(math.MinInt64, math.MaxInt64))
}
