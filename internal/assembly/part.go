package assembly

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/factory"
	"github.com/Rana718/knockoff/internal/period"
	"github.com/Rana718/knockoff/internal/types"
	"github.com/Rana718/knockoff/internal/utils"
)

// loadInline builds rows from the data list. Mappings become rows keyed by
// column; lists need explicit columns; scalars fill a single column.
func loadInline(_ context.Context, _ *Assembler, n *Node) (*types.Table, error) {
	data := n.Source.List("data")
	columns, err := n.Source.Strings("columns")
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return types.NewTable(n.ID.Name, columns), nil
	}

	switch data[0].(type) {
	case []any:
		if len(columns) == 0 {
			return nil, fmt.Errorf("%w: %s has list rows but no columns", errs.ErrConfiguration, n.ID)
		}
		out := types.NewTable(n.ID.Name, columns)
		for i, item := range data {
			row, ok := item.([]any)
			if !ok || len(row) != len(columns) {
				return nil, fmt.Errorf("%w: %s row %d does not have %d values", errs.ErrConfiguration, n.ID, i, len(columns))
			}
			rec := make(types.Record, len(columns))
			for j, c := range columns {
				rec[c] = row[j]
			}
			out.Append(rec)
		}
		return out, nil
	}

	if _, ok := types.AsParams(data[0]); ok {
		rows := make([]types.Params, len(data))
		seen := make(map[string]bool)
		var discovered []string
		for i, item := range data {
			row, ok := types.AsParams(item)
			if !ok {
				return nil, fmt.Errorf("%w: %s row %d is not a mapping", errs.ErrConfiguration, n.ID, i)
			}
			rows[i] = row
			for k := range row {
				if !seen[k] {
					seen[k] = true
					discovered = append(discovered, k)
				}
			}
		}
		if len(columns) == 0 {
			sort.Strings(discovered)
			columns = discovered
		}
		out := types.NewTable(n.ID.Name, columns)
		for _, row := range rows {
			out.Append(types.Record(row))
		}
		return out, nil
	}

	column := n.Source.String("column", "value")
	out := types.NewTable(n.ID.Name, []string{column})
	for _, v := range data {
		out.Append(types.Record{column: v})
	}
	return out, nil
}

func loadPeriod(_ context.Context, _ *Assembler, n *Node) (*types.Table, error) {
	spec, err := period.ParseSpec(n.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.ID, err)
	}
	out := period.Generate(spec)
	out.Name = n.ID.Name
	return out, nil
}

// loadIO reads rows through a named reader, optionally projected.
func loadIO(ctx context.Context, a *Assembler, n *Node) (*types.Table, error) {
	name := n.Source.String("reader", "")
	read, err := a.registry.Reader(name)
	if err != nil {
		return nil, err
	}
	out, err := read(ctx, n.Source.List("args"), n.Source.Map("kwargs"))
	if err != nil {
		return nil, fmt.Errorf("reader %q: %w", name, err)
	}
	columns, err := n.Source.Strings("columns")
	if err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		if out, err = out.Project(columns); err != nil {
			return nil, err
		}
	}
	out.Name = n.ID.Name
	return out, nil
}

// loadFaker draws a set of number distinct values from a faker method.
func loadFaker(_ context.Context, a *Assembler, n *Node) (*types.Table, error) {
	number, err := n.Source.Int("number", 0)
	if err != nil {
		return nil, err
	}
	if number <= 0 {
		return nil, fmt.Errorf("%w: %s needs a positive number", errs.ErrConfiguration, n.ID)
	}
	stream, err := factory.Faker(a.src, n.Source.String("method", ""), n.Source.Map("kwargs"))
	if err != nil {
		return nil, err
	}

	column := n.Source.String("column", "value")
	unique := constraint.NewUnique(column)
	out := types.NewTable(n.ID.Name, []string{column})
	limit := a.attemptLimit
	used := 0
	for out.Len() < number {
		if used >= limit {
			return nil, errs.AttemptLimit(n.ID.String(), limit)
		}
		rec, ok, err := utils.RetryUntil(limit-used, func() (types.Record, bool, error) {
			used++
			v, err := stream()
			if err != nil {
				return nil, false, err
			}
			rec := types.Record{column: v}
			return rec, unique.Check(rec), nil
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.AttemptLimit(n.ID.String(), limit)
		}
		unique.Add(rec)
		out.Append(rec)
	}
	return out, nil
}

// loadConcat stacks the dependency tables. Columns are the union in order of
// appearance; missing values are nil.
func loadConcat(_ context.Context, a *Assembler, n *Node) (*types.Table, error) {
	refs, err := n.Dependencies()
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: %s concatenates no dependencies", errs.ErrConfiguration, n.ID)
	}

	var parts []*types.Table
	var columns []string
	seen := make(map[string]bool)
	for _, ref := range refs {
		data, dep, err := a.Dependency(ref)
		if err != nil {
			return nil, err
		}
		if dep.Field != "" {
			if data, err = data.Project([]string{dep.Field}); err != nil {
				return nil, err
			}
		}
		for _, c := range data.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
		parts = append(parts, data)
	}

	out := types.NewTable(n.ID.Name, columns)
	for _, p := range parts {
		for _, row := range p.Rows {
			out.Append(row)
		}
	}
	return out, nil
}

// loadCartesian builds every combination of one column per dependency. The
// first dependency varies slowest.
func loadCartesian(_ context.Context, a *Assembler, n *Node) (*types.Table, error) {
	refs, err := n.Dependencies()
	if err != nil {
		return nil, err
	}
	index, err := n.Source.Strings("index")
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 || len(refs) != len(index) {
		return nil, fmt.Errorf("%w: %s has %d dependencies and %d index names; they must be equal and non-zero",
			errs.ErrConfiguration, n.ID, len(refs), len(index))
	}

	values := make([][]any, len(refs))
	for i, ref := range refs {
		data, dep, err := a.Dependency(ref)
		if err != nil {
			return nil, err
		}
		column, err := dep.Column(data)
		if err != nil {
			return nil, err
		}
		if values[i], err = data.Column(column); err != nil {
			return nil, err
		}
	}

	out := types.NewTable(n.ID.Name, index)
	total := 1
	for _, v := range values {
		total *= len(v)
	}
	out.Rows = make([]types.Record, 0, total)
	for k := 0; k < total; k++ {
		rec := make(types.Record, len(index))
		rem := k
		for i := len(values) - 1; i >= 0; i-- {
			rec[index[i]] = values[i][rem%len(values[i])]
			rem /= len(values[i])
		}
		out.Append(rec)
	}
	return out, nil
}
