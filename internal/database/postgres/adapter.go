package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rana718/knockoff/internal/database/common"
	"github.com/Rana718/knockoff/internal/types"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
	opts common.Options
}

func New(opts common.Options) *Adapter {
	return &Adapter{
		qb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		opts: opts,
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = int32(p.opts.Workers()) + 1
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) StatementBuilder() squirrel.StatementBuilderType { return p.qb }

// Query runs a statement and returns its result set.
func (p *Adapter) Query(ctx context.Context, query string, args ...any) (*types.Table, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}
	out := types.NewTable("query", columns)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(types.Record, len(columns))
		for i, c := range columns {
			rec[c] = values[i]
		}
		out.Append(rec)
	}
	return out, rows.Err()
}

// Insert bulk loads rows with COPY, one chunk per worker.
func (p *Adapter) Insert(ctx context.Context, name string, data *types.Table) error {
	if data.Len() == 0 {
		return nil
	}
	columns := data.Columns
	return common.InsertChunks(ctx, data, p.opts, func(ctx context.Context, rows [][]any) error {
		_, err := p.pool.CopyFrom(ctx, pgx.Identifier{name}, columns, pgx.CopyFromRows(rows))
		return err
	})
}
