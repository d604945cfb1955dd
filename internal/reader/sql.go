package reader

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

// Querier runs a query and returns the result set as a table.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*types.Table, error)
	StatementBuilder() squirrel.StatementBuilderType
}

// SQL returns a reader over q. It runs the raw query given as the first
// argument or the sql kwarg, or else selects columns from the table kwarg
// with optional where (a map of column equalities), order_by and limit.
func SQL(q Querier) Reader {
	return func(ctx context.Context, args []any, kwargs types.Params) (*types.Table, error) {
		if q == nil {
			return nil, fmt.Errorf("%w: sql reader needs a database connection", errs.ErrConfiguration)
		}
		if len(args) > 0 || kwargs.Has("sql") {
			query, err := stringArg(args, kwargs, 0, "sql")
			if err != nil {
				return nil, err
			}
			return q.Query(ctx, query)
		}

		query, params, err := BuildSelect(q.StatementBuilder(), kwargs)
		if err != nil {
			return nil, err
		}
		return q.Query(ctx, query, params...)
	}
}

// BuildSelect renders the table/columns/where/order_by/limit kwargs as a
// SELECT statement.
func BuildSelect(sb squirrel.StatementBuilderType, kwargs types.Params) (string, []any, error) {
	tableName := kwargs.String("table", "")
	if tableName == "" {
		return "", nil, fmt.Errorf("%w: sql reader needs sql or table", errs.ErrConfiguration)
	}
	columns, err := kwargs.Strings("columns")
	if err != nil {
		return "", nil, err
	}
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	stmt := sb.Select(columns...).From(tableName)
	if where := kwargs.Map("where"); len(where) > 0 {
		stmt = stmt.Where(squirrel.Eq(where))
	}
	if orderBy, err := kwargs.Strings("order_by"); err != nil {
		return "", nil, err
	} else if len(orderBy) > 0 {
		stmt = stmt.OrderBy(orderBy...)
	}
	limit, err := kwargs.Int("limit", 0)
	if err != nil {
		return "", nil, err
	}
	if limit > 0 {
		stmt = stmt.Limit(uint64(limit))
	}
	return stmt.ToSql()
}
