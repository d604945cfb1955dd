// Package sdk orchestrates programmatically defined tables: tables are added
// with their dependencies, built in dependency order and optionally inserted
// into a database.
package sdk

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rana718/knockoff/internal/dag"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/table"
	"github.com/Rana718/knockoff/internal/types"
)

// DatabaseService reflects schemas and persists built tables.
type DatabaseService interface {
	table.SchemaProvider
	Insert(ctx context.Context, name string, data *types.Table) error
}

type entry struct {
	table  *table.Table
	insert bool
}

type DB struct {
	service DatabaseService
	graph   *dag.Graph[string, *entry]
	log     *zap.Logger
}

// NewDB returns an empty DB. service may be nil when nothing is autoloaded
// or inserted.
func NewDB(service DatabaseService, log *zap.Logger) *DB {
	if log == nil {
		log = zap.NewNop()
	}
	return &DB{
		service: service,
		graph:   dag.New[string, *entry](),
		log:     log,
	}
}

// Add registers t. dependsOn names tables that must be built before t, for
// example tables t samples from.
func (db *DB) Add(t *table.Table, insert bool, dependsOn ...string) error {
	if _, err := db.graph.AddNode(t.Name(), &entry{table: t, insert: insert}, dependsOn...); err != nil {
		return fmt.Errorf("failed to add table %s: %w", t.Name(), err)
	}
	return nil
}

func (db *DB) Table(name string) (*table.Table, bool) {
	n, ok := db.graph.Get(name)
	if !ok {
		return nil, false
	}
	return n.Value.table, true
}

// Tables returns every table in insertion order.
func (db *DB) Tables() []*table.Table {
	nodes := db.graph.Nodes()
	out := make([]*table.Table, len(nodes))
	for i, n := range nodes {
		out[i] = n.Value.table
	}
	return out
}

// Prepare resolves columns and types of every table in dependency order.
func (db *DB) Prepare(ctx context.Context) error {
	order, err := db.graph.TopologicalOrder()
	if err != nil {
		return err
	}
	for _, n := range order {
		if err := n.Value.table.Prepare(ctx, db.provider()); err != nil {
			return err
		}
	}
	return nil
}

// Build builds every table not built yet, in dependency order, and returns
// the data keyed by table name.
func (db *DB) Build(ctx context.Context) (map[string]*types.Table, error) {
	order, err := db.graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	out := make(map[string]*types.Table, len(order))
	for _, n := range order {
		data, err := db.build(ctx, n.Value.table)
		if err != nil {
			return nil, err
		}
		out[n.Key] = data
	}
	return out, nil
}

func (db *DB) build(ctx context.Context, t *table.Table) (*types.Table, error) {
	if err := t.Prepare(ctx, db.provider()); err != nil {
		return nil, err
	}
	if t.Built() {
		return t.Data()
	}
	db.log.Debug("building table", zap.String("table", t.Name()), zap.Int("size", t.Size()))
	return t.Build(0)
}

// Insert builds anything missing and inserts the tables added with insert
// set. Tables added without it are still built for their dependents.
func (db *DB) Insert(ctx context.Context) error {
	order, err := db.graph.TopologicalOrder()
	if err != nil {
		return err
	}
	for _, n := range order {
		data, err := db.build(ctx, n.Value.table)
		if err != nil {
			return err
		}
		if !n.Value.insert {
			continue
		}
		if db.service == nil {
			return fmt.Errorf("%w: no database configured to insert %s", errs.ErrConfiguration, n.Key)
		}
		db.log.Info("inserting table", zap.String("table", n.Key), zap.Int("rows", data.Len()))
		if err := db.service.Insert(ctx, n.Key, data); err != nil {
			return fmt.Errorf("failed to insert %s: %w", n.Key, err)
		}
	}
	return nil
}

func (db *DB) provider() table.SchemaProvider {
	if db.service == nil {
		return nil
	}
	return db.service
}
