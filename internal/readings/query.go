package readings

import (
	"errors"
	"math"
	"time"
)

// DefaultThresholdColumn is the radiation column of the reference data.
const DefaultThresholdColumn = "Solar_Radiation"

// Query is what the dashboard controls select. Nil bounds fall back to the
// observed range of the data.
type Query struct {
	Start  *time.Time
	End    *time.Time
	Column string
	Min    *float64
}

// QueryResult carries the three outputs the dashboard renders plus the
// bounds its controls are built from.
type QueryResult struct {
	Columns []string

	// Start and End are the effective, date-only range.
	Start time.Time
	End   time.Time
	// DateMin and DateMax are the observed dates of the loaded table.
	DateMin  time.Time
	DateMax  time.Time
	HasDates bool

	Ranged *Table

	Column string
	// Min is the effective threshold.
	Min float64
	// ValueMin and ValueMax are the observed values of Column within Ranged.
	ValueMin  float64
	ValueMax  float64
	HasValues bool

	// Thresholded is nil when ThresholdErr is set.
	Thresholded  *Table
	ThresholdErr error
}

// RunQuery applies the range filter and then the threshold filter. A missing
// threshold column does not fail the query: it is reported in ThresholdErr and
// the range-filtered table is still returned.
func RunQuery(t *Table, q Query) (QueryResult, error) {
	res := QueryResult{
		Columns: t.Columns(),
		Column:  q.Column,
	}
	if res.Column == "" {
		res.Column = DefaultThresholdColumn
	}

	if lo, hi, ok := t.TimeBounds(); ok {
		res.DateMin, res.DateMax, res.HasDates = DateOf(lo), DateOf(hi), true
	}
	res.Start, res.End = effectiveRange(q, res.DateMin, res.DateMax, res.HasDates)

	ranged, err := FilterByDateRange(t, res.Start, res.End)
	if err != nil {
		return res, err
	}
	res.Ranged = ranged

	if ranged.Schemaless() {
		res.Thresholded = ranged
		return res, nil
	}

	lo, hi, ok, err := ranged.ValueBounds(res.Column)
	if err != nil {
		if errors.Is(err, ErrMissingColumn) {
			res.ThresholdErr = err
			return res, nil
		}
		return res, err
	}
	res.ValueMin, res.ValueMax, res.HasValues = lo, hi, ok

	switch {
	case q.Min != nil:
		res.Min = *q.Min
	case ok:
		res.Min = lo
	default:
		res.Min = math.Inf(-1)
	}

	thresholded, err := FilterByMinimum(ranged, res.Column, res.Min)
	if err != nil {
		res.ThresholdErr = err
		return res, nil
	}
	res.Thresholded = thresholded
	return res, nil
}

// effectiveRange fills an absent bound from the observed dates. A single
// bound lying beyond the data collapses the range onto that bound, so only
// two explicit bounds can be reversed.
func effectiveRange(q Query, dateMin, dateMax time.Time, hasDates bool) (start, end time.Time) {
	switch {
	case q.Start != nil && q.End != nil:
		return DateOf(*q.Start), DateOf(*q.End)
	case q.Start != nil:
		start = DateOf(*q.Start)
		if !hasDates || start.After(dateMax) {
			return start, start
		}
		return start, dateMax
	case q.End != nil:
		end = DateOf(*q.End)
		if !hasDates || end.Before(dateMin) {
			return end, end
		}
		return dateMin, end
	}
	return dateMin, dateMax
}
