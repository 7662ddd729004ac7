package table

import (
	"fmt"
	"strings"
)

// Row represents a single record keyed by column name
type Row map[string]interface{}

// Copy returns a copy of the row. Cell values are immutable kinds, so a
// shallow copy is a full copy.
func (r Row) Copy() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table represents an in-memory table with an explicit column order
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// AppendRow adds a row to the end of the table
func (t *Table) AppendRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// IsEmpty reports whether the table has no rows or no columns
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0 || len(t.Columns) == 0
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// ColumnValues returns the column's cells in row order
func (t *Table) ColumnValues(name string) []interface{} {
	values := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// Clone returns a deep copy of the table. Pipeline stages operate on clones
// so callers keep the input table intact.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = row.Copy()
	}
	return out
}

// DropColumn removes the named column and its cells from every row
func (t *Table) DropColumn(name string) {
	cols := t.Columns[:0]
	for _, col := range t.Columns {
		if col != name {
			cols = append(cols, col)
		}
	}
	t.Columns = cols
	for _, row := range t.Rows {
		delete(row, name)
	}
}

// SetColumn assigns values[i] to row i under the named column, appending
// the column at the end of the column order when it does not exist yet.
// The number of values must match the number of rows.
func (t *Table) SetColumn(name string, values []interface{}) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for i, row := range t.Rows {
		row[name] = values[i]
	}
	return nil
}

// RowKey returns a canonical representation of the row across the table's
// column order. Rows with equal keys are exact duplicates.
func (t *Table) RowKey(r Row) string {
	var b strings.Builder
	for _, col := range t.Columns {
		appendCellKey(&b, r[col])
	}
	return b.String()
}
