package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/knockoff/internal/assembly"
	"github.com/Rana718/knockoff/internal/config"
	"github.com/Rana718/knockoff/template"
)

func TestInitializeProject(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, initializeProject(root, template.SQLite))

	for _, f := range []string{config.FileName, "knockoff.yaml", "db/schema/users.sql", ".env"} {
		if _, err := os.Stat(filepath.Join(root, f)); err != nil {
			t.Errorf("Expected %s to be created: %v", f, err)
		}
	}

	cfg, err := assembly.LoadConfig(filepath.Join(root, "knockoff.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, sqlTables(cfg))
}

func TestInitializeProjectKeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	blueprint := filepath.Join(root, "knockoff.yaml")
	require.NoError(t, os.WriteFile(blueprint, []byte("mine"), 0644))

	require.NoError(t, initializeProject(root, template.PostgreSQL))

	content, err := os.ReadFile(blueprint)
	require.NoError(t, err)
	if string(content) != "mine" {
		t.Errorf("Expected existing blueprint to be kept, got %q", content)
	}
}

func TestHandleEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("API_KEY=abc"), 0644))

	require.NoError(t, handleEnvFile(envPath, "DATABASE_URL=sqlite://./data.sqlite\n"))
	require.NoError(t, handleEnvFile(envPath, "DATABASE_URL=other\n"))

	content, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "API_KEY=abc\n"))
	assert.Equal(t, 1, strings.Count(string(content), "DATABASE_URL="))
}

func TestSQLTables(t *testing.T) {
	cfg, err := assembly.ParseConfig([]byte(`
knockoff:
  dag:
    - type: part
      name: colors
      source: {strategy: inline, data: [red]}
    - type: table
      name: shades
      table: color_shades
      source: {strategy: io, reader: inline}
      sink: {strategy: sql}
    - type: table
      name: preview
      source: {strategy: io, reader: inline}
      sink: {strategy: stdout}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"color_shades"}, sqlTables(cfg))
}
