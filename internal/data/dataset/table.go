// Package dataset loads the read-only CSV datasets a review session is
// opened against: the insights table and the optional workout-history
// table. The core never mutates dataset rows.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Table is a simple in-memory tabular dataset: rows indexed 0..n-1,
// columns addressable by header name.
type Table struct {
	path    string
	columns []string
	index   map[string]int
	rows    [][]string
}

// Load reads a CSV file into a Table. The first record is the header row.
// Short records are tolerated; missing cells read as empty.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", path)
	}

	t := &Table{
		path:    path,
		columns: records[0],
		index:   make(map[string]int, len(records[0])),
		rows:    records[1:],
	}
	for i, name := range t.columns {
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	return t, nil
}

// Path returns the file the table was loaded from.
func (t *Table) Path() string { return t.path }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the header names in file order.
func (t *Table) Columns() []string { return t.columns }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns the row at index i. Panics on out-of-range access, matching
// slice semantics; callers navigate within bounds.
func (t *Table) Row(i int) Row {
	return Row{table: t, values: t.rows[i]}
}

// Row is a read-only view of one table row.
type Row struct {
	table  *Table
	values []string
}

// Get returns the cell under the named column, or def when the column is
// missing or the cell is empty.
func (r Row) Get(column, def string) string {
	idx, ok := r.table.index[column]
	if !ok || idx >= len(r.values) {
		return def
	}
	if r.values[idx] == "" {
		return def
	}
	return r.values[idx]
}
