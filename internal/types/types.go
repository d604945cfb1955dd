package types

import (
	"fmt"

	"github.com/Rana718/knockoff/internal/errs"
)

// Record maps a column name to a scalar value.
type Record map[string]any

// Table is an ordered column list plus rows sharing that column set.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

func NewTable(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Append adds a row, filling columns the record does not carry with nil.
func (t *Table) Append(r Record) {
	row := make(Record, len(t.Columns))
	for _, c := range t.Columns {
		row[c] = r[c]
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]any, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w: table %q has no column %q", errs.ErrConfiguration, t.Name, name)
	}
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values, nil
}

// Project returns a new table restricted to the given columns, in that order.
func (t *Table) Project(columns []string) (*Table, error) {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("%w: table %q has no column %q", errs.ErrConfiguration, t.Name, c)
		}
	}
	out := NewTable(t.Name, columns)
	out.Rows = make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out.Append(row)
	}
	return out, nil
}

// Values returns one row as a slice ordered by Columns.
func (t *Table) Values(i int) []any {
	row := t.Rows[i]
	values := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		values[j] = row[c]
	}
	return values
}

// ColumnType is the logical type used to pick default value factories.
type ColumnType string

const (
	TypeInt      ColumnType = "int"
	TypeFloat    ColumnType = "float"
	TypeDecimal  ColumnType = "decimal"
	TypeString   ColumnType = "string"
	TypeBool     ColumnType = "bool"
	TypeDatetime ColumnType = "datetime"
	TypeDate     ColumnType = "date"
	TypeUUID     ColumnType = "uuid"
	TypeJSON     ColumnType = "json"
)

type SchemaTable struct {
	Name    string
	Columns []SchemaColumn
	Indexes []SchemaIndex
}

// ColumnNames returns the reflected column names in ordinal order.
func (s *SchemaTable) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func (s *SchemaTable) Column(name string) (SchemaColumn, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return SchemaColumn{}, false
}

type SchemaColumn struct {
	Name            string
	Type            string // raw provider type, e.g. "character varying"
	ColumnType      ColumnType
	Nullable        bool
	Default         string
	IsPrimary       bool
	IsUnique        bool
	IsAutoIncrement bool
}

type SchemaIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}
