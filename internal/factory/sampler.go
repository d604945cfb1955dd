package factory

import (
	"fmt"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/types"
)

// DataSource exposes a materialized table. Data must not build anything;
// it returns errs.ErrNotBuilt until the owner has been built.
type DataSource interface {
	Data() (*types.Table, error)
}

type staticSource struct{ t *types.Table }

func (s staticSource) Data() (*types.Table, error) { return s.t, nil }

// Static wraps an already built table as a DataSource.
func Static(t *types.Table) DataSource { return staticSource{t: t} }

// TableSampler draws a uniformly random row from source on every call. The
// source is read on first use, so it may be built after the sampler is made.
func TableSampler(src *random.Source, source DataSource, opts CollectionOptions) *CollectionsFactory {
	var data *types.Table
	return Collections(func(map[string]any) (types.Record, error) {
		if data == nil {
			t, err := loadSource(source)
			if err != nil {
				return nil, err
			}
			data = t
		}
		return data.Rows[src.Intn(len(data.Rows))], nil
	}, opts)
}

// RowsCycler returns the rows of source in order, wrapping around at the end.
func RowsCycler(source DataSource, opts CollectionOptions) *CollectionsFactory {
	var data *types.Table
	next := 0
	return Collections(func(map[string]any) (types.Record, error) {
		if data == nil {
			t, err := loadSource(source)
			if err != nil {
				return nil, err
			}
			data = t
		}
		row := data.Rows[next%len(data.Rows)]
		next++
		return row, nil
	}, opts)
}

func loadSource(source DataSource) (*types.Table, error) {
	t, err := source.Data()
	if err != nil {
		return nil, fmt.Errorf("sample source: %w", err)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: cannot sample from empty table %q", errs.ErrConfiguration, t.Name)
	}
	return t, nil
}
