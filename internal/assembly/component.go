package assembly

import (
	"context"
	"fmt"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/factory"
	"github.com/Rana718/knockoff/internal/types"
)

func autoincrementComponent(_ context.Context, _ *Assembler, n *Node) (factory.Stream, error) {
	start, err := n.Source.Int("start_value", 0)
	if err != nil {
		return nil, err
	}
	step, err := n.Source.Int("step", 1)
	if err != nil {
		return nil, err
	}
	return factory.Autoincrement(start, step), nil
}

// fakerComponent streams a faker method. Without a method, one is guessed
// from the component name.
func fakerComponent(_ context.Context, a *Assembler, n *Node) (factory.Stream, error) {
	method := n.Source.String("method", "")
	if method == "" {
		method = factory.GuessMethod(n.Component)
	}
	if method == "" {
		return nil, fmt.Errorf("%w: %s needs a faker method", errs.ErrConfiguration, n.ID)
	}
	return factory.Faker(a.src, method, n.Source.Map("kwargs"))
}

func choiceComponent(_ context.Context, a *Assembler, n *Node) (factory.Stream, error) {
	choices := n.Source.List("choices")
	var weights []float64
	for _, w := range n.Source.List("weights") {
		f, ok := types.ToFloat(w)
		if !ok {
			return nil, fmt.Errorf("%w: %s weight %v is not a number", errs.ErrConfiguration, n.ID, w)
		}
		weights = append(weights, f)
	}
	stream, err := factory.Choice(a.src, choices, weights)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.ID, err)
	}
	return stream, nil
}

// resolvedByPrototype marks components whose values the owning prototype
// computes per record.
func resolvedByPrototype(context.Context, *Assembler, *Node) (factory.Stream, error) {
	return nil, nil
}
