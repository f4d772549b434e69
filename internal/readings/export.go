package readings

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Records renders each row as a column-name keyed map. Numeric cells become
// float64, missing cells nil, timestamps RFC3339 strings.
func Records(t *Table) []map[string]any {
	out := make([]map[string]any, 0, len(t.rows))
	for _, r := range t.rows {
		rec := make(map[string]any, len(t.columns))
		for i, name := range t.columns {
			c := r.Cells[i]
			switch {
			case name == t.timestamp:
				rec[name] = r.Timestamp.Format(time.RFC3339)
			case c.Missing():
				rec[name] = nil
			case c.Numeric && !math.IsInf(c.Num, 0):
				rec[name] = c.Num
			default:
				rec[name] = c.Raw
			}
		}
		out = append(out, rec)
	}
	return out
}

// WriteCSV writes t with its header. Timestamps are written in RFC3339 so
// the output loads back into an identical table.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("csv write header: %w", err)
	}

	rec := make([]string, len(t.columns))
	for _, r := range t.rows {
		for i, name := range t.columns {
			if name == t.timestamp {
				rec[i] = r.Timestamp.Format(time.RFC3339Nano)
				continue
			}
			rec[i] = r.Cells[i].Raw
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParquet writes t as a Parquet file. The timestamp column is stored as
// TIMESTAMP(MILLIS), numeric columns as optional DOUBLE and everything else as
// optional STRING.
func WriteParquet(w io.Writer, t *Table) error {
	if t.Schemaless() {
		return fmt.Errorf("parquet: table has no columns")
	}

	kinds := make(map[string]ColumnKind, len(t.columns))
	group := parquet.Group{}
	for _, info := range Describe(t).Columns {
		kinds[info.Name] = info.Kind
		switch info.Kind {
		case KindDatetime:
			group[info.Name] = parquet.Timestamp(parquet.Millisecond)
		case KindNumeric:
			group[info.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		default:
			group[info.Name] = parquet.Optional(parquet.String())
		}
	}
	schema := parquet.NewSchema("reading", group)

	// Leaf order is defined by the schema, not by the table.
	leaves := schema.Columns()
	source := make([]int, len(leaves))
	for leaf, path := range leaves {
		source[leaf] = t.index[path[0]]
	}

	rows := make([]parquet.Row, 0, len(t.rows))
	for _, r := range t.rows {
		row := make(parquet.Row, len(leaves))
		for leaf, col := range source {
			name := t.columns[col]
			c := r.Cells[col]
			switch kinds[name] {
			case KindDatetime:
				row[leaf] = parquet.Int64Value(r.Timestamp.UnixMilli()).Level(0, 0, leaf)
			case KindNumeric:
				if c.Numeric {
					row[leaf] = parquet.DoubleValue(c.Num).Level(0, 1, leaf)
				} else {
					row[leaf] = parquet.NullValue().Level(0, 0, leaf)
				}
			default:
				if c.Missing() {
					row[leaf] = parquet.NullValue().Level(0, 0, leaf)
				} else {
					row[leaf] = parquet.ByteArrayValue([]byte(c.Raw)).Level(0, 1, leaf)
				}
			}
		}
		rows = append(rows, row)
	}

	pw := parquet.NewWriter(w, schema)
	if _, err := pw.WriteRows(rows); err != nil {
		pw.Close()
		return fmt.Errorf("parquet write rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return nil
}
