package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Rana718/knockoff/internal/errs"
)

func load(t *testing.T, content string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("json")
	BindEnv(v)
	if content != "" {
		if err := v.ReadConfig(strings.NewReader(content)); err != nil {
			t.Fatalf("Failed to read config: %v", err)
		}
	}
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := load(t, "")

	if cfg.Blueprint != "knockoff.yaml" {
		t.Errorf("Expected blueprint to be 'knockoff.yaml', got '%s'", cfg.Blueprint)
	}
	if cfg.OutputDir != "knockoff_out" {
		t.Errorf("Expected output_dir to be 'knockoff_out', got '%s'", cfg.OutputDir)
	}
	if cfg.Database.Provider != "postgresql" {
		t.Errorf("Expected database provider to be 'postgresql', got '%s'", cfg.Database.Provider)
	}
	if cfg.Database.URLEnv != "DATABASE_URL" {
		t.Errorf("Expected database url_env to be 'DATABASE_URL', got '%s'", cfg.Database.URLEnv)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Errorf("Expected warn/console logging, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	cfg := load(t, `{
		"blueprint": "data/shop.yaml",
		"database": {"provider": "sqlite", "url_env": "SHOP_DB", "insert_chunk_size": 500, "insert_workers": 2},
		"generation": {"seed": 42, "attempt_limit": 5000},
		"s3": {"region": "eu-west-1", "bucket": "fixtures"}
	}`)

	if cfg.Blueprint != "data/shop.yaml" {
		t.Errorf("Expected blueprint 'data/shop.yaml', got '%s'", cfg.Blueprint)
	}
	if cfg.Generation.Seed != 42 || cfg.Generation.AttemptLimit != 5000 {
		t.Errorf("Expected seed 42 and attempt limit 5000, got %d and %d", cfg.Generation.Seed, cfg.Generation.AttemptLimit)
	}
	opts := cfg.DatabaseOptions()
	if opts.InsertChunkSize != 500 || opts.InsertWorkers != 2 {
		t.Errorf("Expected chunk 500 and 2 workers, got %d and %d", opts.InsertChunkSize, opts.InsertWorkers)
	}
	if !cfg.HasS3() || cfg.S3Config().Bucket != "fixtures" {
		t.Errorf("Expected s3 bucket 'fixtures' to be configured")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KNOCKOFF_LOG_LEVEL", "debug")
	t.Setenv("KNOCKOFF_ATTEMPT_LIMIT", "77")

	cfg := load(t, `{"logging": {"level": "error"}}`)

	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected env log level 'debug', got '%s'", cfg.Logging.Level)
	}
	if cfg.Generation.AttemptLimit != 77 {
		t.Errorf("Expected env attempt limit 77, got %d", cfg.Generation.AttemptLimit)
	}
}

func TestValidate(t *testing.T) {
	cfg := load(t, `{"database": {"provider": "oracle"}}`)
	if err := cfg.Validate(); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("Expected configuration error for unsupported provider, got %v", err)
	}

	cfg = load(t, `{"logging": {"format": "xml"}}`)
	if err := cfg.Validate(); err == nil {
		t.Errorf("Expected error for unknown log format")
	}
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := load(t, `{"database": {"url_env": "KNOCKOFF_TEST_DB_URL"}}`)

	t.Setenv("KNOCKOFF_TEST_DB_URL", "")
	if _, err := cfg.GetDatabaseURL(); err == nil {
		t.Errorf("Expected error when the url env is empty")
	}
	if cfg.HasDatabase() {
		t.Errorf("Expected no database when the url env is empty")
	}

	t.Setenv("KNOCKOFF_TEST_DB_URL", "sqlite://:memory:")
	url, err := cfg.GetDatabaseURL()
	if err != nil || url != "sqlite://:memory:" {
		t.Errorf("Expected url from env, got %q (%v)", url, err)
	}
}
