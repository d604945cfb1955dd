package sdk

import (
	"context"

	"github.com/Rana718/knockoff/internal/types"
)

// Plan adds tables to db and returns it.
type Plan func(db *DB) (*DB, error)

type Blueprint struct {
	Plan Plan
}

type ConstructionResult struct {
	Tables map[string]*types.Table
	DB     *DB
}

// Construct applies the plan to db and builds every table.
func (b Blueprint) Construct(ctx context.Context, db *DB) (*ConstructionResult, error) {
	plan := b.Plan
	if plan == nil {
		plan = NoPlan
	}
	db, err := plan(db)
	if err != nil {
		return nil, err
	}
	tables, err := db.Build(ctx)
	if err != nil {
		return nil, err
	}
	return &ConstructionResult{Tables: tables, DB: db}, nil
}

func NoPlan(db *DB) (*DB, error) { return db, nil }
