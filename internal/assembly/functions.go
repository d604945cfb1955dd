package assembly

import (
	"fmt"
	"strings"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/types"
)

// format applies the first argument as a fmt layout to the rest.
func format(_ *random.Source, args []any, _ map[string]any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: format needs a layout argument", errs.ErrConfiguration)
	}
	layout, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: format layout must be a string, got %T", errs.ErrConfiguration, args[0])
	}
	return fmt.Sprintf(layout, args[1:]...), nil
}

// join concatenates its arguments with kwargs["sep"].
func join(_ *random.Source, args []any, kwargs map[string]any) (any, error) {
	sep, _ := kwargs["sep"].(string)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, sep), nil
}

// arithmetic folds numeric arguments. The result stays an int when every
// argument is integral.
func arithmetic(name string, identity int, op func(a, b float64) float64) Function {
	return func(_ *random.Source, args []any, _ map[string]any) (any, error) {
		acc := float64(identity)
		integral := true
		for _, a := range args {
			f, ok := types.ToFloat(a)
			if !ok {
				return nil, fmt.Errorf("%w: %s argument %v is not a number", errs.ErrConfiguration, name, a)
			}
			if _, isInt := types.ToInt(a); !isInt {
				integral = false
			}
			acc = op(acc, f)
		}
		if integral {
			return int(acc), nil
		}
		return acc, nil
	}
}

func stringFunc(name string, fn func(string) string) Function {
	return func(_ *random.Source, args []any, _ map[string]any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s takes one argument, got %d", errs.ErrConfiguration, name, len(args))
		}
		return fn(fmt.Sprint(args[0])), nil
	}
}

// randint draws from [min, max] given positionally or as kwargs.
func randint(src *random.Source, args []any, kwargs map[string]any) (any, error) {
	bounds := []any{kwargs["min"], kwargs["max"]}
	copy(bounds, args)
	lo, ok := types.ToInt(bounds[0])
	if !ok {
		return nil, fmt.Errorf("%w: randint min %v is not an integer", errs.ErrConfiguration, bounds[0])
	}
	hi, ok := types.ToInt(bounds[1])
	if !ok {
		return nil, fmt.Errorf("%w: randint max %v is not an integer", errs.ErrConfiguration, bounds[1])
	}
	if hi < lo {
		return nil, fmt.Errorf("%w: randint max %d is below min %d", errs.ErrConfiguration, hi, lo)
	}
	return src.IntRange(lo, hi), nil
}
