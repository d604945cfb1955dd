package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rana718/knockoff/internal/database/common"
	"github.com/Rana718/knockoff/internal/types"
)

// maxVariables is the lowest bound-parameter limit across SQLite builds.
const maxVariables = 999

type Adapter struct {
	db   *sql.DB
	qb   squirrel.StatementBuilderType
	opts common.Options
}

// New returns a SQLite adapter. SQLite has a single writer, so inserts run
// on one worker regardless of opts.
func New(opts common.Options) *Adapter {
	opts.InsertWorkers = 1
	return &Adapter{
		qb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		opts: opts,
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") && dbPath != ":memory:" {
		dbPath += "?cache=shared&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// one connection keeps an in-memory database alive for the whole run
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) StatementBuilder() squirrel.StatementBuilderType { return s.qb }

// Exec runs a statement without results, such as DDL.
func (s *Adapter) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Adapter) Query(ctx context.Context, query string, args ...any) (*types.Table, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return common.ScanRows("query", rows)
}

func (s *Adapter) Insert(ctx context.Context, name string, data *types.Table) error {
	opts := s.opts
	if n := len(data.Columns); n > 0 {
		opts.InsertChunkSize = min(opts.ChunkSize(), max(1, maxVariables/n))
	}
	return common.InsertSQL(ctx, s.db, s.qb, quote, name, data, opts)
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
