package readings

import (
	"encoding/json"
	"math"
	"sort"
)

// ColumnKind classifies a column for inspection output.
type ColumnKind string

const (
	KindDatetime ColumnKind = "datetime"
	KindNumeric  ColumnKind = "numeric"
	KindText     ColumnKind = "text"
)

// ColumnInfo is one line of the table overview.
type ColumnInfo struct {
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
	NonNull  int        `json:"non_null"`
	Nulls    int        `json:"nulls"`
	Position int        `json:"position"`
}

// Stats are the descriptive statistics of a numeric column.
type Stats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// MarshalJSON writes undefined statistics (NaN) as null.
func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		P25    *float64 `json:"p25"`
		P50    *float64 `json:"p50"`
		P75    *float64 `json:"p75"`
		Max    *float64 `json:"max"`
	}{
		Column: s.Column,
		Count:  s.Count,
		Mean:   finite(s.Mean),
		Std:    finite(s.Std),
		Min:    finite(s.Min),
		P25:    finite(s.P25),
		P50:    finite(s.P50),
		P75:    finite(s.P75),
		Max:    finite(s.Max),
	})
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Summary is the inspection report of a table.
type Summary struct {
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
	Stats   []Stats      `json:"stats"`
}

// Describe builds the overview, null counts and numeric statistics of t.
func Describe(t *Table) Summary {
	s := Summary{
		Rows:    t.Len(),
		Columns: make([]ColumnInfo, 0, len(t.columns)),
		Stats:   make([]Stats, 0, len(t.columns)),
	}

	for i, name := range t.columns {
		info := ColumnInfo{Name: name, Position: i, Kind: KindNumeric}
		if name == t.timestamp {
			info.Kind = KindDatetime
		}

		values := make([]float64, 0, len(t.rows))
		for _, r := range t.rows {
			c := r.Cells[i]
			if c.Missing() {
				info.Nulls++
				continue
			}
			info.NonNull++
			if info.Kind == KindDatetime {
				continue
			}
			if !c.Numeric {
				info.Kind = KindText
				continue
			}
			values = append(values, c.Num)
		}
		if info.NonNull == 0 && info.Kind == KindNumeric {
			info.Kind = KindText
		}
		s.Columns = append(s.Columns, info)

		if info.Kind == KindNumeric {
			s.Stats = append(s.Stats, describeValues(name, values))
		}
	}
	return s
}

// Head returns the first n rows of t as a new table.
func Head(t *Table, n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	rows := make([]Row, n)
	copy(rows, t.rows[:n])
	return t.derive(rows)
}

func describeValues(name string, values []float64) Stats {
	st := Stats{Column: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		st.Mean, st.Std, st.Min, st.P25, st.P50, st.P75, st.Max = nan, nan, nan, nan, nan, nan, nan
		return st
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	st.Mean = sum / float64(len(sorted))

	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - st.Mean
			sq += d * d
		}
		st.Std = math.Sqrt(sq / float64(len(sorted)-1))
	} else {
		st.Std = math.NaN()
	}

	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.P25 = quantile(sorted, 0.25)
	st.P50 = quantile(sorted, 0.50)
	st.P75 = quantile(sorted, 0.75)
	return st
}

// quantile interpolates linearly between the closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
