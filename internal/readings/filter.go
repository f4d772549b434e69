package readings

import (
	"fmt"
	"time"
)

// FilterByDateRange keeps the rows whose timestamp falls on a calendar date
// within [start, end]. Only the dates of start and end are used.
func FilterByDateRange(t *Table, start, end time.Time) (*Table, error) {
	from, to := DateOf(start), DateOf(end)
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange,
			from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	if t.Schemaless() {
		return Empty(), nil
	}
	if t.timestamp == "" {
		return nil, &MissingColumnError{Column: t.wantTimestamp}
	}

	rows := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		d := DateOf(r.Timestamp)
		if d.Before(from) || d.After(to) {
			continue
		}
		rows = append(rows, r)
	}
	return t.derive(rows), nil
}

// FilterByMinimum keeps the rows whose value in column is numeric and at
// least min. Missing and non-numeric cells never match.
func FilterByMinimum(t *Table, column string, min float64) (*Table, error) {
	if t.Schemaless() {
		return Empty(), nil
	}
	col, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		c := r.Cells[col]
		if c.Numeric && c.Num >= min {
			rows = append(rows, r)
		}
	}
	return t.derive(rows), nil
}
