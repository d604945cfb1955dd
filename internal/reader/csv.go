package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

type CSVOptions struct {
	Delimiter  rune
	InferTypes bool
}

// ReadCSV parses r with a header row. With InferTypes, cells become int64,
// float64 or bool where they parse as such and empty cells become nil.
func ReadCSV(name string, r io.Reader, opts CSVOptions) (*types.Table, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv %s has no header", errs.ErrConfiguration, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	out := types.NewTable(name, header)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv %s: %w", name, err)
		}
		row := make(types.Record, len(header))
		for i, col := range header {
			if opts.InferTypes {
				row[col] = inferValue(fields[i])
			} else {
				row[col] = fields[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func inferValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// Inline reads CSV text passed as the first argument or the data kwarg.
func Inline(_ context.Context, args []any, kwargs types.Params) (*types.Table, error) {
	data, err := stringArg(args, kwargs, 0, "data")
	if err != nil {
		return nil, err
	}
	opts, err := csvOptions(kwargs)
	if err != nil {
		return nil, err
	}
	return ReadCSV("inline", strings.NewReader(data), opts)
}

// File reads one CSV file, or every file matching a glob pattern in sorted
// order. Matched files must share a header.
func File(_ context.Context, args []any, kwargs types.Params) (*types.Table, error) {
	pattern, err := stringArg(args, kwargs, 0, "path")
	if err != nil {
		return nil, err
	}
	opts, err := csvOptions(kwargs)
	if err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid path pattern %q", errs.ErrConfiguration, pattern)
	}
	if len(paths) == 0 {
		return nil, errs.NewResourceNotFound("file", pattern)
	}
	sort.Strings(paths)

	var out *types.Table
	for _, path := range paths {
		t, err := readFile(path, opts)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = t
			continue
		}
		if strings.Join(out.Columns, ",") != strings.Join(t.Columns, ",") {
			return nil, fmt.Errorf("%w: %s has columns %v, expected %v", errs.ErrConfiguration, path, t.Columns, out.Columns)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}

func readFile(path string, opts CSVOptions) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(filepath.Base(path), f, opts)
}

// WriteCSV writes t with a header row.
func WriteCSV(w io.Writer, t *types.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for i := range t.Rows {
		for j, v := range t.Values(i) {
			if v == nil {
				record[j] = ""
			} else {
				record[j] = fmt.Sprintf("%v", v)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
