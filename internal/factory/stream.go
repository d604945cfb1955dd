package factory

import (
	"fmt"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/random"
)

// Stream is a lazy value generator advanced one value per call.
type Stream func() (any, error)

// Autoincrement counts up from start by step.
func Autoincrement(start, step int) Stream {
	if step == 0 {
		step = 1
	}
	next := start
	return func() (any, error) {
		v := next
		next += step
		return v, nil
	}
}

func Const(v any) Stream {
	return func() (any, error) { return v, nil }
}

// Choice draws from choices, weighted when weights is non-empty.
func Choice(src *random.Source, choices []any, weights []float64) (Stream, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: choice needs at least one value", errs.ErrConfiguration)
	}
	if len(weights) == 0 {
		return func() (any, error) {
			return choices[src.Intn(len(choices))], nil
		}, nil
	}
	if len(weights) != len(choices) {
		return nil, fmt.Errorf("%w: choice has %d values but %d weights", errs.ErrConfiguration, len(choices), len(weights))
	}

	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: choice weight %v is negative", errs.ErrConfiguration, w)
		}
		total += w
		cumulative[i] = total
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: choice weights sum to zero", errs.ErrConfiguration)
	}
	return func() (any, error) {
		r := src.Float64() * total
		for i, c := range cumulative {
			if r < c {
				return choices[i], nil
			}
		}
		return choices[len(choices)-1], nil
	}, nil
}
