package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Source returns a readings source over table, with rows ordered by
// timestampColumn. The table is only read.
func (s *Store) Source(table, timestampColumn string) *TableSource {
	return &TableSource{store: s, table: table, orderBy: timestampColumn}
}

// TableSource exposes a database table as a readings source.
type TableSource struct {
	store   *Store
	table   string
	orderBy string
}

func (t *TableSource) Identity() string {
	return "postgres:" + t.table
}

const tableExistsSQL = `SELECT to_regclass($1::text) IS NOT NULL`

// Version only checks that the table exists. Tables carry no cheap change
// marker, so a cached table is kept until the cache is invalidated.
func (t *TableSource) Version(ctx context.Context) (string, error) {
	var exists bool
	if err := t.store.pool.QueryRow(ctx, tableExistsSQL, t.table).Scan(&exists); err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: table %s", readings.ErrSourceNotFound, t.table)
	}
	return "", nil
}

// Open reads the whole table in timestamp order, rendering every value as
// text.
func (t *TableSource) Open(ctx context.Context) (readings.RecordReader, error) {
	rows, err := t.store.pool.Query(ctx, t.selectSQL())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	records := make([][]string, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = formatValue(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return readings.NewSliceRecords(header, records), nil
}

func (t *TableSource) selectSQL() string {
	query := "SELECT * FROM " + pgx.Identifier(strings.Split(t.table, ".")).Sanitize()
	if t.orderBy != "" {
		query += " ORDER BY " + pgx.Identifier{t.orderBy}.Sanitize()
	}
	return query
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
