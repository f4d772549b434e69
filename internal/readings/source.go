package readings

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

// Source is a tabular input the loader can read. Identity is the cache key;
// Version changes whenever the underlying data changes ("" means the source
// cannot tell, and its cached table is kept until invalidated).
type Source interface {
	Identity() string
	Version(ctx context.Context) (string, error)
	Open(ctx context.Context) (RecordReader, error)
}

// RecordReader yields the header record first, then data records, then io.EOF.
type RecordReader interface {
	Read() ([]string, error)
	// Line returns the source line of the last record read.
	Line() int
	Close() error
}

// FileSource reads a comma-separated file. Files ending in .gz are
// decompressed on the fly.
type FileSource struct {
	Path string
}

// Identity returns the absolute path of the file.
func (s FileSource) Identity() string {
	if abs, err := filepath.Abs(s.Path); err == nil {
		return "file:" + abs
	}
	return "file:" + filepath.Clean(s.Path)
}

// Version combines modification time and size.
func (s FileSource) Version(_ context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", s.Path)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

// Open opens the file for reading.
func (s FileSource) Open(_ context.Context) (RecordReader, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}

	var r io.Reader = f
	var gz *pgzip.Reader
	if strings.EqualFold(filepath.Ext(s.Path), ".gz") {
		gz, err = pgzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		r = gz
	}

	return newCSVRecords(r, func() error {
		if gz != nil {
			gz.Close()
		}
		return f.Close()
	}), nil
}

type csvRecords struct {
	r     *csv.Reader
	line  int
	close func() error
}

func newCSVRecords(r io.Reader, closeFn func() error) *csvRecords {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return &csvRecords{r: cr, close: closeFn}
}

func (c *csvRecords) Read() ([]string, error) {
	rec, err := c.r.Read()
	if err != nil {
		return nil, err
	}
	c.line, _ = c.r.FieldPos(0)
	return rec, nil
}

func (c *csvRecords) Line() int { return c.line }

func (c *csvRecords) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// ReaderSource wraps in-memory CSV text. It is meant for tests and for
// uploads that never touch disk.
type ReaderSource struct {
	Name string
	Data []byte
}

func (s ReaderSource) Identity() string { return "mem:" + s.Name }

func (s ReaderSource) Version(_ context.Context) (string, error) {
	return fmt.Sprintf("%d", len(s.Data)), nil
}

func (s ReaderSource) Open(_ context.Context) (RecordReader, error) {
	return newCSVRecords(bytes.NewReader(s.Data), nil), nil
}

// SliceRecords serves records that were already materialised, such as the
// result of a database query. The first record is the header.
type SliceRecords struct {
	records [][]string
	pos     int
}

// NewSliceRecords returns a RecordReader over header followed by rows.
func NewSliceRecords(header []string, rows [][]string) *SliceRecords {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)
	return &SliceRecords{records: records}
}

func (s *SliceRecords) Read() ([]string, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

func (s *SliceRecords) Line() int { return s.pos }

func (s *SliceRecords) Close() error { return nil }
