// Package readings loads timestamped sensor readings from tabular sources
// and selects rows from them by calendar date and by numeric threshold.
package readings

import (
	"strconv"
	"strings"
	"time"
)

// Cell is a single value of a row. Raw keeps the source text; Num is only
// meaningful when Numeric is true.
type Cell struct {
	Raw     string
	Num     float64
	Numeric bool
}

// Missing reports whether the cell holds no value.
func (c Cell) Missing() bool {
	return isMissing(c.Raw)
}

// Row is one timestamped sample. Cells are aligned with Table.Columns.
type Row struct {
	Timestamp time.Time
	Cells     []Cell
}

// Table is an immutable ordered collection of rows sharing one schema.
type Table struct {
	columns   []string
	index     map[string]int
	timestamp string
	// wantTimestamp is the timestamp column the table was built for, kept
	// even when the column is absent so errors can name it.
	wantTimestamp string
	rows          []Row
}

// NewTable builds a table from already-typed rows. A timestampColumn that is
// not among columns leaves the table without a timestamp column; empty means
// DefaultTimestampColumn.
func NewTable(columns []string, timestampColumn string, rows []Row) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)

	index := make(map[string]int, len(cols))
	for i, name := range cols {
		index[name] = i
	}
	want := timestampColumn
	if want == "" {
		want = DefaultTimestampColumn
	}
	if _, ok := index[timestampColumn]; !ok {
		timestampColumn = ""
	}

	return &Table{
		columns:       cols,
		index:         index,
		timestamp:     timestampColumn,
		wantTimestamp: want,
		rows:          rows,
	}
}

// Empty returns a schema-less table with no rows. It is what a failed load
// hands back alongside its error.
func Empty() *Table {
	return NewTable(nil, "", nil)
}

// Columns returns a copy of the column names in source order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// TimestampColumn returns the name of the parsed timestamp column, or "".
func (t *Table) TimestampColumn() string {
	return t.timestamp
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// Schemaless reports whether the table has no columns at all.
func (t *Table) Schemaless() bool {
	return len(t.columns) == 0
}

// Row returns the i-th row.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns a copy of the row slice.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of name, or a *MissingColumnError.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, &MissingColumnError{Column: name}
	}
	return i, nil
}

// Value returns the cell of row i in column name.
func (t *Table) Value(i int, name string) (Cell, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return Cell{}, err
	}
	return t.rows[i].Cells[col], nil
}

// Floats returns the numeric values of a column along with their timestamps,
// skipping missing and non-numeric cells.
func (t *Table) Floats(name string) ([]time.Time, []float64, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, nil, err
	}

	times := make([]time.Time, 0, len(t.rows))
	values := make([]float64, 0, len(t.rows))
	for _, r := range t.rows {
		c := r.Cells[col]
		if !c.Numeric {
			continue
		}
		times = append(times, r.Timestamp)
		values = append(values, c.Num)
	}
	return times, values, nil
}

// TimeBounds returns the earliest and latest timestamps in the table.
func (t *Table) TimeBounds() (min, max time.Time, ok bool) {
	for i, r := range t.rows {
		if i == 0 || r.Timestamp.Before(min) {
			min = r.Timestamp
		}
		if i == 0 || r.Timestamp.After(max) {
			max = r.Timestamp
		}
	}
	return min, max, len(t.rows) > 0
}

// ValueBounds returns the smallest and largest numeric values in a column.
// ok is false when the column holds no numeric value.
func (t *Table) ValueBounds(name string) (min, max float64, ok bool, err error) {
	_, values, err := t.Floats(name)
	if err != nil {
		return 0, 0, false, err
	}
	for i, v := range values {
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	return min, max, len(values) > 0, nil
}

// derive returns a table with the same schema holding the given rows.
func (t *Table) derive(rows []Row) *Table {
	return &Table{
		columns:       t.columns,
		index:         t.index,
		timestamp:     t.timestamp,
		wantTimestamp: t.wantTimestamp,
		rows:          rows,
	}
}

// NewCell interprets raw text as a cell, detecting numeric values.
func NewCell(raw string) Cell {
	c := Cell{Raw: raw}
	s := strings.TrimSpace(raw)
	if isMissing(s) {
		return c
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		c.Num = f
		c.Numeric = true
	}
	return c
}

func isMissing(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "nan", "null", "na", "n/a", "none":
		return true
	}
	return false
}
