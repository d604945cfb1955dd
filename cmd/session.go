package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Rana718/knockoff/internal/assembly"
	"github.com/Rana718/knockoff/internal/config"
	"github.com/Rana718/knockoff/internal/database"
	"github.com/Rana718/knockoff/internal/logger"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/reader"
)

// session holds the collaborators of one invocation.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	source   *random.Source
	db       database.Adapter
	registry *assembly.Registry
}

func newSession(ctx context.Context, cfg *config.Config, seed int64, connect bool) (*session, error) {
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	sess := &session{
		cfg:    cfg,
		log:    log,
		source: random.ConfigureDeterminism(seed),
	}
	deps := assembly.Deps{
		OutputDir: cfg.OutputDir,
		Stdout:    os.Stdout,
	}

	if connect && cfg.HasDatabase() {
		url, err := cfg.GetDatabaseURL()
		if err != nil {
			return nil, err
		}
		db, err := database.Open(ctx, cfg.Database.Provider, url, cfg.DatabaseOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sess.db = db
		deps.Database = db
		log.Debug("connected to database", zap.String("provider", cfg.Database.Provider))
	}

	if connect && cfg.HasS3() {
		client, err := reader.NewS3Client(ctx, cfg.S3Config())
		if err != nil {
			sess.Close()
			return nil, err
		}
		deps.S3 = client
		deps.S3Bucket = cfg.S3.Bucket
	}

	sess.registry = assembly.DefaultRegistry(deps)
	return sess, nil
}

// blueprint loads the blueprint at path, or the configured one when path is
// empty, and builds it against the session registry.
func (sess *session) blueprint(path string) (*assembly.Config, *assembly.Blueprint, error) {
	if path == "" {
		path = sess.cfg.Blueprint
	}
	bpCfg, err := assembly.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	bp, err := assembly.FromConfig(bpCfg, sess.registry)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return bpCfg, bp, nil
}

func (sess *session) assembler(bp *assembly.Blueprint) *assembly.Assembler {
	return assembly.NewAssembler(bp, sess.registry, assembly.Options{
		Source:       sess.source,
		Logger:       sess.log,
		AttemptLimit: sess.cfg.Generation.AttemptLimit,
	})
}

func (sess *session) Close() {
	if sess.db != nil {
		sess.db.Close()
	}
	sess.log.Sync()
}
