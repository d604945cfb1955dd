// Package table builds a single table of records from column factories,
// type-keyed defaults and uniqueness constraints.
//
// Factories run in the order given. A factory that depends on a column
// receives that column's value from an earlier factory; depending on a
// column produced later is a configuration error caught by Validate.
package table

import (
	"context"
	"fmt"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/factory"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/types"
	"github.com/Rana718/knockoff/internal/utils"
)

// SchemaProvider reflects table metadata from a live database.
type SchemaProvider interface {
	ReflectSchema(ctx context.Context, name string) (*types.SchemaTable, error)
	ReflectUniqueConstraints(ctx context.Context, name string) ([]constraint.Constraint, error)
	HasTable(ctx context.Context, name string) (bool, error)
}

type Options struct {
	Factories   []factory.Factory
	Columns     []string
	DType       map[string]types.ColumnType
	Constraints []constraint.Constraint
	// DefaultTypeFactories entries override the built-in defaults per type.
	DefaultTypeFactories map[types.ColumnType]factory.ValueFunc
	Source               *random.Source
	AttemptLimit         int
	Size                 int

	Autoload                    bool
	IgnoreConstraintsOnAutoload bool
	// Schema supplies columns and types from an existing definition, e.g.
	// to load rows shaped like one table into another.
	Schema *types.SchemaTable
	// GuessFromNames fills string columns with a faker method picked from
	// the column name when one matches.
	GuessFromNames bool
}

type Table struct {
	name        string
	opts        Options
	src         *random.Source
	columns     []string
	dtype       map[string]types.ColumnType
	constraints []constraint.Constraint
	defaults    map[types.ColumnType]factory.ValueFunc
	guessed     map[string]factory.FakerMethod
	prepared    bool
	data        *types.Table
}

func New(name string, opts Options) *Table {
	src := opts.Source
	if src == nil {
		src = random.ConfigureDeterminism(0)
	}
	defaults := factory.DefaultTypeFactories(src)
	for ct, fn := range opts.DefaultTypeFactories {
		defaults[ct] = fn
	}
	constraints := make([]constraint.Constraint, len(opts.Constraints))
	copy(constraints, opts.Constraints)

	return &Table{
		name:        name,
		opts:        opts,
		src:         src,
		constraints: constraints,
		defaults:    defaults,
	}
}

func (t *Table) Name() string { return t.name }

func (t *Table) Size() int { return t.opts.Size }

func (t *Table) AttemptLimit() int {
	return utils.ResolveAttemptLimit(t.opts.AttemptLimit, 0)
}

func (t *Table) Constraints() []constraint.Constraint { return t.constraints }

// Columns returns the resolved column list; it is empty before Prepare.
func (t *Table) Columns() []string { return t.columns }

func (t *Table) DType(column string) types.ColumnType {
	if ct, ok := t.dtype[column]; ok {
		return ct
	}
	return types.TypeString
}

// Prepare resolves columns and types. Columns come from, in order of
// precedence: Options.Columns, Options.Schema, the reflected table, the
// factories' declared outputs. Types come from Options.DType, then
// Options.Schema, then the reflected table, defaulting to string.
// Repeated calls are no-ops.
func (t *Table) Prepare(ctx context.Context, provider SchemaProvider) error {
	if t.prepared {
		return nil
	}

	dtype := make(map[string]types.ColumnType)
	var columns []string

	if t.opts.Autoload {
		if provider == nil {
			return fmt.Errorf("%w: table %q needs a database to autoload", errs.ErrConfiguration, t.name)
		}
		exists, err := provider.HasTable(ctx, t.name)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", t.name, err)
		}
		if !exists {
			return errs.NewResourceNotFound("table", t.name)
		}
		schema, err := provider.ReflectSchema(ctx, t.name)
		if err != nil {
			return fmt.Errorf("failed to reflect table %s: %w", t.name, err)
		}
		columns = schema.ColumnNames()
		for _, c := range schema.Columns {
			dtype[c.Name] = c.ColumnType
		}

		if !t.opts.IgnoreConstraintsOnAutoload {
			reflected, err := provider.ReflectUniqueConstraints(ctx, t.name)
			if err != nil {
				return fmt.Errorf("failed to reflect constraints of %s: %w", t.name, err)
			}
			t.constraints = append(t.constraints, reflected...)
		}
	}

	if t.opts.Schema != nil {
		columns = t.opts.Schema.ColumnNames()
		for _, c := range t.opts.Schema.Columns {
			dtype[c.Name] = c.ColumnType
		}
	}

	if len(t.opts.Columns) > 0 {
		columns = t.opts.Columns
	}
	if len(columns) == 0 {
		columns = t.declaredColumns()
	}
	if len(columns) == 0 {
		return fmt.Errorf("%w: table %q has no columns", errs.ErrConfiguration, t.name)
	}

	for col, ct := range t.opts.DType {
		dtype[col] = ct
	}

	t.columns = append([]string(nil), columns...)
	t.dtype = dtype
	t.guessed = make(map[string]factory.FakerMethod)
	if t.opts.GuessFromNames {
		for _, col := range t.columns {
			if t.DType(col) != types.TypeString {
				continue
			}
			if method := factory.GuessMethod(col); method != "" {
				fn, err := factory.LookupFaker(method)
				if err != nil {
					return err
				}
				t.guessed[col] = fn
			}
		}
	}
	t.prepared = true
	return nil
}

// declaredColumns collects factory outputs, or nil if any factory's outputs
// are only known at call time.
func (t *Table) declaredColumns() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, f := range t.opts.Factories {
		cols := f.Produces()
		if cols == nil {
			return nil
		}
		for _, c := range cols {
			if _, dup := seen[c]; !dup {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return out
}

// Validate checks factory ordering and that every column without a factory
// has a default for its type.
func (t *Table) Validate() error {
	if !t.prepared {
		if err := t.Prepare(context.Background(), nil); err != nil {
			return err
		}
	}

	produced := make(map[string]struct{})
	opaque := false
	for i, f := range t.opts.Factories {
		for _, dep := range f.DependsOn() {
			if _, ok := produced[dep]; !ok && !opaque {
				return fmt.Errorf("%w: factory %d of table %q depends on %q, which no earlier factory produces",
					errs.ErrConfiguration, i, t.name, dep)
			}
		}
		cols := f.Produces()
		if cols == nil {
			opaque = true
		}
		for _, c := range cols {
			produced[c] = struct{}{}
		}
	}
	if opaque {
		return nil
	}

	for _, col := range t.columns {
		if _, ok := produced[col]; ok {
			continue
		}
		if _, ok := t.guessed[col]; ok {
			continue
		}
		if _, ok := t.defaults[t.DType(col)]; !ok {
			return t.factoryNotFound(col)
		}
	}
	return nil
}

func (t *Table) factoryNotFound(col string) error {
	return fmt.Errorf("%w: table %q has no factory for column %q of type %q",
		errs.ErrFactoryNotFound, t.name, col, t.DType(col))
}

// BuildRecord produces one candidate record without checking constraints.
func (t *Table) BuildRecord() (types.Record, error) {
	resolved := make(types.Record)
	for i, f := range t.opts.Factories {
		kwargs := make(map[string]any, len(f.DependsOn()))
		for _, dep := range f.DependsOn() {
			v, ok := resolved[dep]
			if !ok {
				return nil, fmt.Errorf("%w: factory %d of table %q depends on %q, which no earlier factory produced",
					errs.ErrConfiguration, i, t.name, dep)
			}
			kwargs[dep] = v
		}
		values, err := f.Produce(kwargs)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.name, err)
		}
		for k, v := range values {
			resolved[k] = v
		}
	}

	record := make(types.Record, len(t.columns))
	for _, col := range t.columns {
		if v, ok := resolved[col]; ok {
			record[col] = v
			continue
		}
		if fn, ok := t.guessed[col]; ok {
			v, err := fn(t.src.Faker(), nil)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", t.name, col, err)
			}
			record[col] = v
			continue
		}
		fn, ok := t.defaults[t.DType(col)]
		if !ok {
			return nil, t.factoryNotFound(col)
		}
		v, err := fn()
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", t.name, col, err)
		}
		record[col] = v
	}
	return record, nil
}

// next retries BuildRecord until a record satisfies every constraint.
func (t *Table) next(limit int) (types.Record, error) {
	record, ok, err := utils.RetryUntil(limit, func() (types.Record, bool, error) {
		r, err := t.BuildRecord()
		if err != nil {
			return nil, false, err
		}
		return r, constraint.CheckAll(t.constraints, r), nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.AttemptLimit("table "+t.name, limit)
	}
	constraint.AddAll(t.constraints, record)
	return record, nil
}

// Build generates exactly size records, falling back to Options.Size when
// size is not positive.
func (t *Table) Build(size int) (*types.Table, error) {
	if size <= 0 {
		size = t.opts.Size
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: table %q needs a positive size", errs.ErrConfiguration, t.name)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	limit := t.AttemptLimit()
	out := types.NewTable(t.name, t.columns)
	out.Rows = make([]types.Record, 0, size)
	for i := 0; i < size; i++ {
		record, err := t.next(limit)
		if err != nil {
			return nil, err
		}
		out.Append(record)
	}
	t.data = out
	return out, nil
}

// Data returns the built table. It never builds.
func (t *Table) Data() (*types.Table, error) {
	if t.data == nil {
		return nil, fmt.Errorf("table %s: %w", t.name, errs.ErrNotBuilt)
	}
	return t.data, nil
}

func (t *Table) Built() bool { return t.data != nil }

// Reset drops built data and clears every constraint's accepted set.
func (t *Table) Reset() {
	t.data = nil
	constraint.ResetAll(t.constraints)
}
