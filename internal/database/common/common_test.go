package common

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/knockoff/internal/types"
)

func TestColumnType(t *testing.T) {
	tests := map[string]types.ColumnType{
		"integer":                     types.TypeInt,
		"bigserial":                   types.TypeInt,
		"int8":                        types.TypeInt,
		"tinyint(1)":                  types.TypeBool,
		"boolean":                     types.TypeBool,
		"numeric(10,2)":               types.TypeDecimal,
		"double precision":            types.TypeFloat,
		"float4":                      types.TypeFloat,
		"timestamp without time zone": types.TypeDatetime,
		"timestamptz":                 types.TypeDatetime,
		"date":                        types.TypeDate,
		"uuid":                        types.TypeUUID,
		"jsonb":                       types.TypeJSON,
		"character varying":           types.TypeString,
		"text":                        types.TypeString,
	}
	for raw, want := range tests {
		if got := ColumnType(raw); got != want {
			t.Errorf("ColumnType(%q): expected %s, got %s", raw, want, got)
		}
	}
}

func TestValueEncodesJSON(t *testing.T) {
	v, err := Value(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	v, err = Value(ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, v.(time.Time).Location())

	v, err = Value(42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func table(n int) *types.Table {
	t := types.NewTable("numbers", []string{"n"})
	for i := 0; i < n; i++ {
		t.Append(types.Record{"n": i})
	}
	return t
}

func TestInsertChunksCoversEveryRow(t *testing.T) {
	var mu sync.Mutex
	var sizes []int
	seen := make(map[any]bool)

	err := InsertChunks(context.Background(), table(25), Options{InsertChunkSize: 10, InsertWorkers: 3},
		func(_ context.Context, rows [][]any) error {
			mu.Lock()
			defer mu.Unlock()
			sizes = append(sizes, len(rows))
			for _, r := range rows {
				seen[r[0]] = true
			}
			return nil
		})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{10, 10, 5}, sizes)
	assert.Len(t, seen, 25)
}

func TestInsertChunksReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := InsertChunks(context.Background(), table(5), Options{InsertChunkSize: 1},
		func(context.Context, [][]any) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	assert.Equal(t, DefaultChunkSize, o.ChunkSize())
	assert.Equal(t, DefaultWorkers, o.Workers())
}

func TestUniqueConstraintsPrimaryFirst(t *testing.T) {
	schema := &types.SchemaTable{
		Name: "users",
		Columns: []types.SchemaColumn{
			{Name: "id", IsPrimary: true},
			{Name: "email"},
		},
		Indexes: []types.SchemaIndex{
			{Name: "users_email_key", Columns: []string{"email"}, Unique: true},
			{Name: "users_email_idx", Columns: []string{"email"}},
			{Name: "users_pkey", Columns: []string{"id"}, Unique: true},
		},
	}
	cs := UniqueConstraints(schema)
	require.Len(t, cs, 2)
	assert.Equal(t, "unique(id)", cs[0].(interface{ String() string }).String())
}
