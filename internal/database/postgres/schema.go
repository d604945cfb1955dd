package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/database/common"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

func (p *Adapter) HasTable(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, pq.QuoteIdentifier(name)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return exists, nil
}

// resolveTable returns name, or the first child partition when name is a
// partitioned parent without reflectable columns of its own.
func (p *Adapter) resolveTable(ctx context.Context, name string) (string, error) {
	var count int
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.columns
		WHERE table_name = $1 AND table_schema = current_schema()
	`, name).Scan(&count)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return name, nil
	}

	var child string
	err = p.pool.QueryRow(ctx, `
		SELECT c.relname
		FROM pg_inherits i
		JOIN pg_class c ON c.oid = i.inhrelid
		JOIN pg_class parent ON parent.oid = i.inhparent
		WHERE parent.relname = $1
		ORDER BY c.relname
		LIMIT 1
	`, name).Scan(&child)
	if errors.Is(err, pgx.ErrNoRows) {
		return name, nil
	}
	if err != nil {
		return "", err
	}
	return child, nil
}

func (p *Adapter) ReflectSchema(ctx context.Context, name string) (*types.SchemaTable, error) {
	ok, err := p.HasTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewResourceNotFound("table", name)
	}
	resolved, err := p.resolveTable(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve table %s: %w", name, err)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT column_name, udt_name, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_name = $1 AND table_schema = current_schema()
		ORDER BY ordinal_position
	`, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect columns of %s: %w", name, err)
	}
	defer rows.Close()

	schema := &types.SchemaTable{Name: name}
	for rows.Next() {
		var column types.SchemaColumn
		var isNullable string
		var columnDefault sql.NullString
		if err := rows.Scan(&column.Name, &column.Type, &isNullable, &columnDefault); err != nil {
			return nil, err
		}
		column.ColumnType = common.ColumnType(column.Type)
		column.Nullable = isNullable == "YES"
		if columnDefault.Valid {
			column.Default = columnDefault.String
			column.IsAutoIncrement = strings.Contains(strings.ToLower(columnDefault.String), "nextval")
		}
		schema.Columns = append(schema.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if schema.Indexes, err = p.uniqueIndexes(ctx, resolved); err != nil {
		return nil, err
	}
	for _, idx := range schema.Indexes {
		for i := range schema.Columns {
			c := &schema.Columns[i]
			for _, col := range idx.Columns {
				if col != c.Name {
					continue
				}
				if idx.Name == resolved+"_pkey" {
					c.IsPrimary = true
				}
				if len(idx.Columns) == 1 {
					c.IsUnique = true
				}
			}
		}
	}
	return schema, nil
}

// uniqueIndexes lists primary key and unique constraints with their columns
// in key order.
func (p *Adapter) uniqueIndexes(ctx context.Context, table string) ([]types.SchemaIndex, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT con.conname, con.contype = 'p', att.attname
		FROM pg_constraint con
		JOIN pg_class rel ON rel.oid = con.conrelid
		JOIN pg_namespace ns ON ns.oid = rel.relnamespace
		CROSS JOIN LATERAL UNNEST(con.conkey) WITH ORDINALITY AS cols(attnum, ord)
		JOIN pg_attribute att ON att.attrelid = rel.oid AND att.attnum = cols.attnum
		WHERE rel.relname = $1
		  AND ns.nspname = current_schema()
		  AND con.contype IN ('p', 'u')
		ORDER BY con.contype, con.conname, cols.ord
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect constraints of %s: %w", table, err)
	}
	defer rows.Close()

	var indexes []types.SchemaIndex
	for rows.Next() {
		var name, column string
		var primary bool
		if err := rows.Scan(&name, &primary, &column); err != nil {
			return nil, err
		}
		if primary {
			name = table + "_pkey"
		}
		if n := len(indexes); n > 0 && indexes[n-1].Name == name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			continue
		}
		indexes = append(indexes, types.SchemaIndex{Name: name, Table: table, Columns: []string{column}, Unique: true})
	}
	return indexes, rows.Err()
}

func (p *Adapter) ReflectUniqueConstraints(ctx context.Context, name string) ([]constraint.Constraint, error) {
	schema, err := p.ReflectSchema(ctx, name)
	if err != nil {
		return nil, err
	}
	return common.UniqueConstraints(schema), nil
}
