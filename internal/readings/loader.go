package readings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// DefaultTimestampColumn is the timestamp column of the reference data.
const DefaultTimestampColumn = "Timestamp"

// Options controls how a source is turned into a table.
type Options struct {
	TimestampColumn string
}

func (o Options) timestampColumn() string {
	if name := strings.TrimSpace(o.TimestampColumn); name != "" {
		return name
	}
	return DefaultTimestampColumn
}

// Load reads every record of src into a table. On failure it returns an
// empty table together with a *LoadError whose Kind is ErrSourceNotFound or
// ErrParseFailure. A bad timestamp anywhere fails the whole load.
func Load(ctx context.Context, src Source, opts Options) (*Table, error) {
	id := src.Identity()

	if _, err := src.Version(ctx); err != nil {
		return Empty(), classifyOpenError(id, err)
	}

	rr, err := src.Open(ctx)
	if err != nil {
		return Empty(), classifyOpenError(id, err)
	}
	defer rr.Close()

	header, err := rr.Read()
	if errors.Is(err, io.EOF) {
		return Empty(), parseFailure(id, 0, errors.New("no header row"))
	}
	if err != nil {
		return Empty(), parseFailure(id, rr.Line(), err)
	}

	columns, err := normalizeHeader(header)
	if err != nil {
		return Empty(), parseFailure(id, rr.Line(), err)
	}

	tsName := opts.timestampColumn()
	tsCol := -1
	for i, name := range columns {
		if name == tsName {
			tsCol = i
			break
		}
	}
	if tsCol < 0 {
		return Empty(), parseFailure(id, rr.Line(), &MissingColumnError{Column: tsName})
	}

	rows := make([]Row, 0, 64)
	for {
		if len(rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Empty(), err
			}
		}

		rec, err := rr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Empty(), parseFailure(id, rr.Line(), err)
		}
		if len(rec) > len(columns) {
			return Empty(), parseFailure(id, rr.Line(),
				fmt.Errorf("expected %d fields, saw %d", len(columns), len(rec)))
		}

		var rawTS string
		if tsCol < len(rec) {
			rawTS = rec[tsCol]
		}
		ts, err := ParseTimestamp(rawTS)
		if err != nil {
			return Empty(), parseFailure(id, rr.Line(), fmt.Errorf("column %q: %w", tsName, err))
		}

		cells := make([]Cell, len(columns))
		for i := range columns {
			if i < len(rec) {
				cells[i] = NewCell(rec[i])
			}
		}
		rows = append(rows, Row{Timestamp: ts, Cells: cells})
	}

	return NewTable(columns, tsName, rows), nil
}

func classifyOpenError(id string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrSourceNotFound) {
		return notFound(id, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return parseFailure(id, 0, err)
}

// normalizeHeader trims every column name, names blank columns after their
// position and rejects duplicates.
func normalizeHeader(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}
	return columns, nil
}
