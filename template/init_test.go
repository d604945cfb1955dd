package template

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/knockoff/internal/assembly"
	"github.com/Rana718/knockoff/internal/database/common"
	"github.com/Rana718/knockoff/internal/database/sqlite"
	"github.com/Rana718/knockoff/internal/random"
)

func TestValidateDatabaseType(t *testing.T) {
	tests := map[string]DatabaseType{
		"sqlite":   SQLite,
		"sqlite3":  SQLite,
		"mysql":    MySQL,
		"postgres": PostgreSQL,
		"oracle":   PostgreSQL,
	}
	for input, expected := range tests {
		if got := ValidateDatabaseType(input); got != expected {
			t.Errorf("Expected %s for %q, got %s", expected, input, got)
		}
	}
}

func TestConfigTemplate(t *testing.T) {
	tmpl := NewProjectTemplate(MySQL)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(tmpl.GetConfig()), &cfg))
	assert.Equal(t, "knockoff.yaml", cfg["blueprint"])
	assert.Equal(t, "mysql", cfg["database"].(map[string]any)["provider"])

	if !strings.HasPrefix(tmpl.GetEnvTemplate(), "DATABASE_URL=mysql://") {
		t.Errorf("Expected mysql DATABASE_URL, got %q", tmpl.GetEnvTemplate())
	}
}

func TestBlueprintFillsSchema(t *testing.T) {
	ctx := context.Background()
	tmpl := NewProjectTemplate(SQLite)

	db := sqlite.New(common.Options{})
	require.NoError(t, db.Connect(ctx, ":memory:"))
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Exec(ctx, tmpl.GetSchema()))

	cfg, err := assembly.ParseConfig([]byte(tmpl.GetBlueprint()))
	require.NoError(t, err)

	src := random.ConfigureDeterminism(7)
	reg := assembly.DefaultRegistry(assembly.Deps{Database: db})
	bp, err := assembly.FromConfig(cfg, reg)
	require.NoError(t, err)
	require.NoError(t, assembly.NewAssembler(bp, reg, assembly.Options{Source: src}).Run(ctx))

	rows, err := db.Query(ctx, "SELECT id, name, email FROM users ORDER BY id")
	require.NoError(t, err)
	require.Equal(t, 50, rows.Len())

	emails := make(map[any]bool)
	for _, row := range rows.Rows {
		email, _ := row["email"].(string)
		assert.Contains(t, email, "@example.")
		emails[row["email"]] = true
	}
	assert.Len(t, emails, 50)
}
