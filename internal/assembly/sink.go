package assembly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
	"github.com/Rana718/knockoff/internal/utils"
)

// Inserter writes a table's rows into a database.
type Inserter interface {
	Insert(ctx context.Context, table string, data *types.Table) error
}

type noopSink struct{}

func (noopSink) Dump(context.Context, string, *types.Table) error { return nil }

type sqlSink struct {
	db Inserter
}

func (s sqlSink) Dump(ctx context.Context, table string, data *types.Table) error {
	return s.db.Insert(ctx, table, data)
}

func newSQLSink(db Inserter) SinkFactory {
	return func(types.Params) (Sink, error) {
		if db == nil {
			return nil, fmt.Errorf("%w: sql sink needs a database connection", errs.ErrConfiguration)
		}
		return sqlSink{db: db}, nil
	}
}

// fileSink writes to path, or to <dir>/<table>.<ext> when no path is set.
type fileSink struct {
	path  string
	dir   string
	ext   string
	write func(io.Writer, *types.Table) error
}

func (s fileSink) Dump(_ context.Context, table string, data *types.Table) error {
	path := s.path
	if path == "" {
		path = filepath.Join(s.dir, table+"."+s.ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.write(f, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func newFileSink(outputDir, ext string, write func(io.Writer, *types.Table) error) SinkFactory {
	return func(params types.Params) (Sink, error) {
		dir := params.String("dir", outputDir)
		if dir == "" {
			dir = "."
		}
		return fileSink{path: params.String("path", ""), dir: dir, ext: ext, write: write}, nil
	}
}

type jsonExport struct {
	Table       string         `json:"table"`
	GeneratedAt string         `json:"generated_at"`
	Columns     []string       `json:"columns"`
	Rows        []types.Record `json:"rows"`
}

// writeJSON writes the table as one indented document with its column order.
func writeJSON(w io.Writer, t *types.Table) error {
	rows := t.Rows
	if rows == nil {
		rows = []types.Record{}
	}
	data, err := json.MarshalIndent(jsonExport{
		Table:       t.Name,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Columns:     t.Columns,
		Rows:        rows,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// stdoutSink prints the table as a grid.
type stdoutSink struct {
	w     io.Writer
	limit int
}

func (s stdoutSink) Dump(_ context.Context, table string, data *types.Table) error {
	fmt.Fprintf(s.w, "%s (%d rows)\n", table, data.Len())
	utils.PrintTable(s.w, data, s.limit)
	return nil
}

func newStdoutSink(w io.Writer) SinkFactory {
	return func(params types.Params) (Sink, error) {
		limit, err := params.Int("limit", 20)
		if err != nil {
			return nil, err
		}
		return stdoutSink{w: w, limit: limit}, nil
	}
}
