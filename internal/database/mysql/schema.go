package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/database/common"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

func (m *Adapter) HasTable(ctx context.Context, name string) (bool, error) {
	var count int
	err := m.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?
	`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}

func (m *Adapter) ReflectSchema(ctx context.Context, name string) (*types.SchemaTable, error) {
	ok, err := m.HasTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewResourceNotFound("table", name)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT column_name, column_type, is_nullable, column_default, column_key, extra
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect columns of %s: %w", name, err)
	}
	defer rows.Close()

	schema := &types.SchemaTable{Name: name}
	for rows.Next() {
		var column types.SchemaColumn
		var isNullable, columnKey, extra string
		var columnDefault sql.NullString
		if err := rows.Scan(&column.Name, &column.Type, &isNullable, &columnDefault, &columnKey, &extra); err != nil {
			return nil, err
		}
		column.ColumnType = common.ColumnType(column.Type)
		column.Nullable = isNullable == "YES"
		column.Default = columnDefault.String
		column.IsPrimary = columnKey == "PRI"
		column.IsUnique = columnKey == "UNI"
		column.IsAutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		schema.Columns = append(schema.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schema.Indexes, err = m.uniqueIndexes(ctx, name)
	return schema, err
}

func (m *Adapter) uniqueIndexes(ctx context.Context, table string) ([]types.SchemaIndex, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT index_name, column_name
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ? AND non_unique = 0
		ORDER BY index_name = 'PRIMARY' DESC, index_name, seq_in_index
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect indexes of %s: %w", table, err)
	}
	defer rows.Close()

	var indexes []types.SchemaIndex
	for rows.Next() {
		var name, column string
		if err := rows.Scan(&name, &column); err != nil {
			return nil, err
		}
		if n := len(indexes); n > 0 && indexes[n-1].Name == name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			continue
		}
		indexes = append(indexes, types.SchemaIndex{Name: name, Table: table, Columns: []string{column}, Unique: true})
	}
	return indexes, rows.Err()
}

func (m *Adapter) ReflectUniqueConstraints(ctx context.Context, name string) ([]constraint.Constraint, error) {
	schema, err := m.ReflectSchema(ctx, name)
	if err != nil {
		return nil, err
	}
	return common.UniqueConstraints(schema), nil
}
