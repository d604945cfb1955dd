// Package reader loads external rows for io strategies: inline CSV text,
// CSV files, SQL queries and CSV objects in S3.
package reader

import (
	"context"
	"fmt"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

// Reader loads a table from positional and keyword arguments.
type Reader func(ctx context.Context, args []any, kwargs types.Params) (*types.Table, error)

// stringArg returns args[pos] if present, else kwargs[key].
func stringArg(args []any, kwargs types.Params, pos int, key string) (string, error) {
	if len(args) > pos {
		s, ok := args[pos].(string)
		if !ok {
			return "", fmt.Errorf("%w: argument %d (%s) must be a string, got %T", errs.ErrConfiguration, pos, key, args[pos])
		}
		return s, nil
	}
	s := kwargs.String(key, "")
	if s == "" {
		return "", fmt.Errorf("%w: reader needs %q", errs.ErrConfiguration, key)
	}
	return s, nil
}

func csvOptions(kwargs types.Params) (CSVOptions, error) {
	opts := CSVOptions{Delimiter: ',', InferTypes: kwargs.Bool("infer_types", true)}
	if sep := kwargs.String("sep", ""); sep != "" {
		r := []rune(sep)
		if len(r) != 1 {
			return opts, fmt.Errorf("%w: sep must be a single character, got %q", errs.ErrConfiguration, sep)
		}
		opts.Delimiter = r[0]
	}
	return opts, nil
}
