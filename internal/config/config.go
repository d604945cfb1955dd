package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Rana718/knockoff/internal/database"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/logger"
	"github.com/Rana718/knockoff/internal/reader"
	"github.com/Rana718/knockoff/internal/utils"
)

const FileName = "knockoff.config.json"

type Config struct {
	Version    string     `json:"version" mapstructure:"version"`
	Blueprint  string     `json:"blueprint" mapstructure:"blueprint"`
	OutputDir  string     `json:"output_dir" mapstructure:"output_dir"`
	Database   Database   `json:"database" mapstructure:"database"`
	Generation Generation `json:"generation" mapstructure:"generation"`
	Logging    Logging    `json:"logging" mapstructure:"logging"`
	S3         S3         `json:"s3,omitempty" mapstructure:"s3"`
}

type Database struct {
	Provider        string `json:"provider" mapstructure:"provider"`
	URLEnv          string `json:"url_env" mapstructure:"url_env"`
	InsertChunkSize int    `json:"insert_chunk_size,omitempty" mapstructure:"insert_chunk_size"`
	InsertWorkers   int    `json:"insert_workers,omitempty" mapstructure:"insert_workers"`
}

type Generation struct {
	// Seed 0 means a fresh seed per run.
	Seed         int64 `json:"seed,omitempty" mapstructure:"seed"`
	AttemptLimit int   `json:"attempt_limit,omitempty" mapstructure:"attempt_limit"`
}

type Logging struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
	Output string `json:"output" mapstructure:"output"`
}

type S3 struct {
	Region       string `json:"region,omitempty" mapstructure:"region"`
	Endpoint     string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Bucket       string `json:"bucket,omitempty" mapstructure:"bucket"`
	AccessKeyEnv string `json:"access_key_env,omitempty" mapstructure:"access_key_env"`
	SecretKeyEnv string `json:"secret_key_env,omitempty" mapstructure:"secret_key_env"`
}

// BindEnv maps the documented environment overrides onto v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("KNOCKOFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("logging.level", "KNOCKOFF_LOG_LEVEL")
	v.BindEnv("generation.attempt_limit", utils.AttemptLimitEnv)
	v.BindEnv("generation.seed", "KNOCKOFF_SEED")
}

// Load reads the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.Blueprint == "" {
		cfg.Blueprint = "knockoff.yaml"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "knockoff_out"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	defaults := logger.DefaultConfig()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Format
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = defaults.Output
	}
	if cfg.S3.AccessKeyEnv == "" {
		cfg.S3.AccessKeyEnv = "AWS_ACCESS_KEY_ID"
	}
	if cfg.S3.SecretKeyEnv == "" {
		cfg.S3.SecretKeyEnv = "AWS_SECRET_ACCESS_KEY"
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if !slices.Contains(database.Providers, c.Database.Provider) {
		return fmt.Errorf("%w: unsupported database provider: %s. Supported providers: %v",
			errs.ErrConfiguration, c.Database.Provider, database.Providers)
	}
	if c.Database.InsertChunkSize < 0 || c.Database.InsertWorkers < 0 {
		return fmt.Errorf("%w: insert_chunk_size and insert_workers cannot be negative", errs.ErrConfiguration)
	}
	if c.Generation.AttemptLimit < 0 {
		return fmt.Errorf("%w: attempt_limit cannot be negative", errs.ErrConfiguration)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging format must be console or json, got %q", errs.ErrConfiguration, c.Logging.Format)
	}
	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) HasDatabase() bool {
	return os.Getenv(c.Database.URLEnv) != ""
}

func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		InsertChunkSize: c.Database.InsertChunkSize,
		InsertWorkers:   c.Database.InsertWorkers,
	}
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}

// HasS3 reports whether an S3 region or endpoint is configured.
func (c *Config) HasS3() bool {
	return c.S3.Region != "" || c.S3.Endpoint != ""
}

func (c *Config) S3Config() reader.S3Config {
	return reader.S3Config{
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: os.Getenv(c.S3.AccessKeyEnv),
		SecretKey: os.Getenv(c.S3.SecretKeyEnv),
		Bucket:    c.S3.Bucket,
	}
}
