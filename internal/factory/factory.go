// Package factory provides the value factories a record builder runs per row:
// single-column factories, record-returning collection factories, samplers
// over already built tables, lazy value streams and the named faker methods.
package factory

import (
	"fmt"
	"sort"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

// Factory contributes one or more column values to a record. Values resolved
// by earlier factories are passed in kwargs, restricted to DependsOn.
type Factory interface {
	DependsOn() []string
	// Produces lists the columns the factory returns, or nil when only
	// known after a call.
	Produces() []string
	Produce(kwargs map[string]any) (types.Record, error)
}

type ColumnFunc func(kwargs map[string]any) (any, error)

// ColumnFactory produces a single named column.
type ColumnFactory struct {
	column    string
	fn        ColumnFunc
	dependsOn []string
}

func Column(name string, fn ColumnFunc, dependsOn ...string) *ColumnFactory {
	return &ColumnFactory{column: name, fn: fn, dependsOn: dependsOn}
}

// FromStream adapts a Stream into a column factory with no dependencies.
func FromStream(name string, s Stream) *ColumnFactory {
	return Column(name, func(map[string]any) (any, error) { return s() })
}

func (c *ColumnFactory) Name() string { return c.column }

func (c *ColumnFactory) DependsOn() []string { return c.dependsOn }

func (c *ColumnFactory) Produces() []string { return []string{c.column} }

func (c *ColumnFactory) Produce(kwargs map[string]any) (types.Record, error) {
	v, err := c.fn(kwargs)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.column, err)
	}
	return types.Record{c.column: v}, nil
}

type RecordFunc func(kwargs map[string]any) (types.Record, error)

type CollectionOptions struct {
	Columns   []string
	Rename    map[string]string
	Drop      []string
	DependsOn []string
}

// CollectionsFactory wraps a record-returning function and reshapes its
// output: only Columns are kept (all keys when empty), Drop is removed and
// Rename maps old keys to new ones.
type CollectionsFactory struct {
	fn   RecordFunc
	opts CollectionOptions
	drop map[string]struct{}
}

func Collections(fn RecordFunc, opts CollectionOptions) *CollectionsFactory {
	drop := make(map[string]struct{}, len(opts.Drop))
	for _, d := range opts.Drop {
		drop[d] = struct{}{}
	}
	return &CollectionsFactory{fn: fn, opts: opts, drop: drop}
}

func (c *CollectionsFactory) DependsOn() []string { return c.opts.DependsOn }

func (c *CollectionsFactory) Produces() []string {
	if len(c.opts.Columns) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.opts.Columns))
	for _, col := range c.opts.Columns {
		if _, skip := c.drop[col]; skip {
			continue
		}
		out = append(out, c.rename(col))
	}
	return out
}

func (c *CollectionsFactory) Produce(kwargs map[string]any) (types.Record, error) {
	record, err := c.fn(kwargs)
	if err != nil {
		return nil, err
	}
	return c.resolve(record)
}

func (c *CollectionsFactory) rename(col string) string {
	if to, ok := c.opts.Rename[col]; ok {
		return to
	}
	return col
}

func (c *CollectionsFactory) resolve(record types.Record) (types.Record, error) {
	columns := c.opts.Columns
	if len(columns) == 0 {
		columns = make([]string, 0, len(record))
		for k := range record {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}
	out := make(types.Record, len(columns))
	for _, col := range columns {
		if _, skip := c.drop[col]; skip {
			continue
		}
		v, ok := record[col]
		if !ok {
			return nil, fmt.Errorf("%w: factory record has no column %q", errs.ErrConfiguration, col)
		}
		out[c.rename(col)] = v
	}
	return out, nil
}
