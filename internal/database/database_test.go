package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/knockoff/internal/database/sqlite"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/factory"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/sdk"
	"github.com/Rana718/knockoff/internal/table"
)

func TestNewAdapterUnknownProvider(t *testing.T) {
	_, err := NewAdapter("oracle", Options{})
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	for _, p := range Providers {
		a, err := NewAdapter(p, Options{})
		require.NoError(t, err, p)
		assert.NotNil(t, a)
	}
}

func TestAutoloadAndInsertIntoSQLite(t *testing.T) {
	ctx := context.Background()
	adapter, err := Open(ctx, "sqlite", ":memory:", Options{})
	require.NoError(t, err)
	defer adapter.Close()

	require.NoError(t, adapter.(*sqlite.Adapter).Exec(ctx, `CREATE TABLE customers (
		id INTEGER PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		tier INTEGER,
		active BOOLEAN
	)`))

	src := random.ConfigureDeterminism(11)
	customers := table.New("customers", table.Options{
		Factories: []factory.Factory{
			factory.FromStream("id", factory.Autoincrement(1, 1)),
		},
		Source:         src,
		Size:           40,
		Autoload:       true,
		GuessFromNames: true,
	})

	db := sdk.NewDB(adapter, nil)
	require.NoError(t, db.Add(customers, true))
	require.NoError(t, db.Insert(ctx))

	assert.Equal(t, []string{"id", "email", "tier", "active"}, customers.Columns())
	assert.Len(t, customers.Constraints(), 2)

	out, err := adapter.Query(ctx, `SELECT COUNT(DISTINCT email) AS n FROM customers`)
	require.NoError(t, err)
	assert.Equal(t, int64(40), out.Rows[0]["n"])
}

func TestAutoloadMissingTable(t *testing.T) {
	ctx := context.Background()
	adapter, err := Open(ctx, "sqlite3", ":memory:", Options{})
	require.NoError(t, err)
	defer adapter.Close()

	tbl := table.New("ghosts", table.Options{Autoload: true})
	err = tbl.Prepare(ctx, adapter)
	assert.ErrorIs(t, err, errs.ErrResourceNotFound)
}
