// Package database connects knockoff to relational databases. Adapters
// reflect table schemas for autoloading, run queries for the sql reader and
// bulk insert generated tables.
package database

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/database/common"
	"github.com/Rana718/knockoff/internal/database/mysql"
	"github.com/Rana718/knockoff/internal/database/postgres"
	"github.com/Rana718/knockoff/internal/database/sqlite"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

type Adapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// Schema reflection
	HasTable(ctx context.Context, name string) (bool, error)
	ReflectSchema(ctx context.Context, name string) (*types.SchemaTable, error)
	ReflectUniqueConstraints(ctx context.Context, name string) ([]constraint.Constraint, error)

	// Data
	Insert(ctx context.Context, name string, data *types.Table) error
	Query(ctx context.Context, query string, args ...any) (*types.Table, error)
	StatementBuilder() squirrel.StatementBuilderType
}

type Options = common.Options

var Providers = []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}

func NewAdapter(provider string, opts Options) (Adapter, error) {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New(opts), nil
	case "mysql":
		return mysql.New(opts), nil
	case "sqlite", "sqlite3":
		return sqlite.New(opts), nil
	default:
		return nil, fmt.Errorf("%w: unsupported database provider %q", errs.ErrConfiguration, provider)
	}
}

// Open creates an adapter for provider and connects it to url.
func Open(ctx context.Context, provider, url string, opts Options) (Adapter, error) {
	adapter, err := NewAdapter(provider, opts)
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx, url); err != nil {
		return nil, err
	}
	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, fmt.Errorf("failed to reach %s database: %w", provider, err)
	}
	return adapter, nil
}
