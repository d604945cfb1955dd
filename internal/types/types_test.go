package types

import (
	"errors"
	"testing"

	"github.com/Rana718/knockoff/internal/errs"
)

func TestAppendFillsMissingColumns(t *testing.T) {
	tbl := NewTable("t", []string{"a", "b"})
	tbl.Append(Record{"a": 1, "extra": true})

	if tbl.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", tbl.Len())
	}
	row := tbl.Rows[0]
	if _, ok := row["extra"]; ok {
		t.Errorf("Expected extra column to be dropped")
	}
	if v, ok := row["b"]; !ok || v != nil {
		t.Errorf("Expected b to be present and nil, got %v", v)
	}
}

func TestProject(t *testing.T) {
	tbl := NewTable("t", []string{"a", "b", "c"})
	tbl.Append(Record{"a": 1, "b": 2, "c": 3})

	p, err := tbl.Project([]string{"c", "a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := p.Values(0)
	if got[0] != 3 || got[1] != 1 {
		t.Errorf("Expected [3 1], got %v", got)
	}

	_, err = tbl.Project([]string{"zzz"})
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestParamsAccessors(t *testing.T) {
	p := Params{
		"n":     3,
		"f":     float64(4),
		"s":     "x",
		"list":  []any{"a", "b"},
		"one":   "solo",
		"inner": map[string]any{"k": "v"},
		"bad":   []any{1},
	}

	if n, err := p.Int("n", 0); err != nil || n != 3 {
		t.Errorf("Expected 3, got %d (%v)", n, err)
	}
	if n, err := p.Int("f", 0); err != nil || n != 4 {
		t.Errorf("Expected integral float to convert, got %d (%v)", n, err)
	}
	if n, _ := p.Int("missing", 9); n != 9 {
		t.Errorf("Expected default 9, got %d", n)
	}
	if _, err := p.Int("s", 0); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}
	if got, _ := p.Strings("list"); len(got) != 2 || got[1] != "b" {
		t.Errorf("Expected [a b], got %v", got)
	}
	if got, _ := p.Strings("one"); len(got) != 1 || got[0] != "solo" {
		t.Errorf("Expected [solo], got %v", got)
	}
	if _, err := p.Strings("bad"); err == nil {
		t.Errorf("Expected error for non-string list")
	}
	if p.Map("inner").String("k", "") != "v" {
		t.Errorf("Expected nested map lookup to work")
	}
}
