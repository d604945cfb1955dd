package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/database/common"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

func (s *Adapter) HasTable(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}

func (s *Adapter) ReflectSchema(ctx context.Context, name string) (*types.SchemaTable, error) {
	ok, err := s.HasTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewResourceNotFound("table", name)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect columns of %s: %w", name, err)
	}
	defer rows.Close()

	schema := &types.SchemaTable{Name: name}
	primary := types.SchemaIndex{Name: "PRIMARY", Table: name, Unique: true}
	var pkOrder []int
	for rows.Next() {
		var column types.SchemaColumn
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&column.Name, &column.Type, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		column.ColumnType = common.ColumnType(column.Type)
		column.Nullable = notNull == 0
		column.Default = dflt.String
		column.IsPrimary = pk > 0
		if pk > 0 {
			primary.Columns = append(primary.Columns, column.Name)
			pkOrder = append(pkOrder, pk)
		}
		schema.Columns = append(schema.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(primary.Columns) > 0 {
		ordered := make([]string, len(primary.Columns))
		for i, pos := range pkOrder {
			ordered[pos-1] = primary.Columns[i]
		}
		primary.Columns = ordered
		if len(ordered) == 1 {
			for i := range schema.Columns {
				c := &schema.Columns[i]
				if c.IsPrimary && common.ColumnType(c.Type) == types.TypeInt {
					c.IsAutoIncrement = true
				}
			}
		}
		schema.Indexes = append(schema.Indexes, primary)
	}

	unique, err := s.uniqueIndexes(ctx, name)
	if err != nil {
		return nil, err
	}
	for _, idx := range unique {
		if len(idx.Columns) == 1 {
			for i := range schema.Columns {
				if schema.Columns[i].Name == idx.Columns[0] {
					schema.Columns[i].IsUnique = true
				}
			}
		}
	}
	schema.Indexes = append(schema.Indexes, unique...)
	return schema, nil
}

// uniqueIndexes lists unique indexes other than the primary key's.
func (s *Adapter) uniqueIndexes(ctx context.Context, table string) ([]types.SchemaIndex, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM pragma_index_list(?) WHERE "unique" = 1 AND origin != 'pk' ORDER BY name`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect indexes of %s: %w", table, err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	indexes := make([]types.SchemaIndex, 0, len(names))
	for _, name := range names {
		cols, err := s.indexColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, types.SchemaIndex{Name: name, Table: table, Columns: cols, Unique: true})
	}
	return indexes, nil
}

func (s *Adapter) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_index_info(?) ORDER BY seqno`, index)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect index %s: %w", index, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func (s *Adapter) ReflectUniqueConstraints(ctx context.Context, name string) ([]constraint.Constraint, error) {
	schema, err := s.ReflectSchema(ctx, name)
	if err != nil {
		return nil, err
	}
	return common.UniqueConstraints(schema), nil
}
