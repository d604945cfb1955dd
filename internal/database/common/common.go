// Package common holds the pieces shared by the provider adapters: SQL type
// mapping, row scanning and chunked parallel inserts.
package common

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"golang.org/x/sync/errgroup"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/types"
)

const (
	DefaultChunkSize = 1000
	DefaultWorkers   = 4
)

type Options struct {
	InsertChunkSize int
	InsertWorkers   int
}

func (o Options) ChunkSize() int {
	if o.InsertChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.InsertChunkSize
}

func (o Options) Workers() int {
	if o.InsertWorkers <= 0 {
		return DefaultWorkers
	}
	return o.InsertWorkers
}

// ColumnType maps a provider SQL type to the logical type used to pick
// default value factories.
func ColumnType(raw string) types.ColumnType {
	t := strings.ToUpper(raw)
	switch {
	case t == "TINYINT(1)" || strings.Contains(t, "BOOL"):
		return types.TypeBool
	case strings.Contains(t, "INT") || strings.Contains(t, "SERIAL"):
		return types.TypeInt
	case strings.Contains(t, "DECIMAL") || strings.Contains(t, "NUMERIC") || strings.Contains(t, "MONEY"):
		return types.TypeDecimal
	case strings.Contains(t, "FLOAT") || strings.Contains(t, "DOUBLE") || strings.Contains(t, "REAL"):
		return types.TypeFloat
	case strings.Contains(t, "TIMESTAMP") || strings.Contains(t, "DATETIME"):
		return types.TypeDatetime
	case strings.Contains(t, "DATE"):
		return types.TypeDate
	case strings.Contains(t, "UUID"):
		return types.TypeUUID
	case strings.Contains(t, "JSON"):
		return types.TypeJSON
	default:
		return types.TypeString
	}
}

// UniqueConstraints turns the unique indexes of a schema into constraints,
// primary key first.
func UniqueConstraints(schema *types.SchemaTable) []constraint.Constraint {
	var out []constraint.Constraint
	for _, primary := range []bool{true, false} {
		for _, idx := range schema.Indexes {
			if !idx.Unique || len(idx.Columns) == 0 {
				continue
			}
			if isPrimary(schema, idx) != primary {
				continue
			}
			out = append(out, constraint.NewUnique(idx.Columns...))
		}
	}
	return out
}

func isPrimary(schema *types.SchemaTable, idx types.SchemaIndex) bool {
	for _, name := range idx.Columns {
		c, ok := schema.Column(name)
		if !ok || !c.IsPrimary {
			return false
		}
	}
	return true
}

// Value converts a generated value to something every driver accepts.
// Mappings and slices are stored as JSON text.
func Value(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any, types.Record, types.Params, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T as json: %w", v, err)
		}
		return string(b), nil
	case time.Time:
		return val.UTC(), nil
	default:
		return v, nil
	}
}

// Row returns row i of t ordered by t.Columns with values converted by Value.
func Row(t *types.Table, i int) ([]any, error) {
	values := t.Values(i)
	for j, v := range values {
		conv, err := Value(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", t.Columns[j], err)
		}
		values[j] = conv
	}
	return values, nil
}

// InsertChunks splits t into chunks of opts.ChunkSize rows and hands them to
// write on up to opts.Workers goroutines. The first error cancels the rest.
func InsertChunks(ctx context.Context, t *types.Table, opts Options, write func(ctx context.Context, rows [][]any) error) error {
	size := opts.ChunkSize()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers())

	for start := 0; start < t.Len(); start += size {
		end := min(start+size, t.Len())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows := make([][]any, 0, end-start)
			for i := start; i < end; i++ {
				row, err := Row(t, i)
				if err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
				rows = append(rows, row)
			}
			if err := write(ctx, rows); err != nil {
				return fmt.Errorf("failed to insert rows %d-%d into %s: %w", start, end-1, t.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ScanRows reads a database/sql result set into a table. Byte slices are
// returned as strings.
func ScanRows(name string, rows *sql.Rows) (*types.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := types.NewTable(name, columns)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(types.Record, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = values[i]
			}
		}
		out.Append(rec)
	}
	return out, rows.Err()
}

// InsertSQL writes t into table name through database/sql using multi-row INSERT statements
// built by qb. quote wraps identifiers in the provider's quoting.
func InsertSQL(ctx context.Context, db *sql.DB, qb squirrel.StatementBuilderType, quote func(string) string, name string, t *types.Table, opts Options) error {
	if t.Len() == 0 {
		return nil
	}
	columns := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = quote(c)
	}
	table := quote(name)
	return InsertChunks(ctx, t, opts, func(ctx context.Context, rows [][]any) error {
		insert := qb.Insert(table).Columns(columns...)
		for _, row := range rows {
			insert = insert.Values(row...)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		_, err = db.ExecContext(ctx, query, args...)
		return err
	})
}
