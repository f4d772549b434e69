package readings

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRunQueryDefaults(t *testing.T) {
	table := loadString(t, scenarioCSV)

	res, err := RunQuery(table, Query{})
	require.NoError(t, err)

	assert.True(t, res.HasDates)
	assert.Equal(t, day(1), res.DateMin)
	assert.Equal(t, day(2), res.DateMax)
	assert.Equal(t, day(1), res.Start)
	assert.Equal(t, day(2), res.End)
	assert.Equal(t, 3, res.Ranged.Len())

	assert.Equal(t, DefaultThresholdColumn, res.Column)
	assert.True(t, res.HasValues)
	assert.Equal(t, 90.0, res.ValueMin)
	assert.Equal(t, 250.0, res.ValueMax)
	assert.Equal(t, 90.0, res.Min)
	require.NoError(t, res.ThresholdErr)
	assert.Equal(t, table.Rows(), res.Ranged.Rows())
	assert.Equal(t, table.Rows(), res.Thresholded.Rows())
}

func TestRunQueryScenario(t *testing.T) {
	table := loadString(t, scenarioCSV)

	res, err := RunQuery(table, Query{
		Start:  ptr(day(1)),
		End:    ptr(day(1).Add(18 * time.Hour)),
		Column: DefaultThresholdColumn,
		Min:    ptr(150.0),
	})
	require.NoError(t, err)

	assert.Equal(t, day(1), res.End)
	assert.Equal(t, 2, res.Ranged.Len())
	assert.Equal(t, 90.0, res.ValueMin)
	assert.Equal(t, 180.0, res.ValueMax)
	assert.Equal(t, []float64{180}, radiation(t, res.Thresholded))
}

func TestRunQueryMissingThresholdColumn(t *testing.T) {
	table := loadString(t, scenarioCSV)

	res, err := RunQuery(table, Query{Column: "Irradiance", Min: ptr(1.0)})
	require.NoError(t, err)

	assert.ErrorIs(t, res.ThresholdErr, ErrMissingColumn)
	assert.Nil(t, res.Thresholded)
	assert.Equal(t, 3, res.Ranged.Len())
}

func TestRunQueryInvalidRange(t *testing.T) {
	table := loadString(t, scenarioCSV)

	_, err := RunQuery(table, Query{Start: ptr(day(2)), End: ptr(day(1))})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRunQueryEmptyTable(t *testing.T) {
	res, err := RunQuery(Empty(), Query{Min: ptr(150.0)})
	require.NoError(t, err)

	assert.False(t, res.HasDates)
	assert.True(t, res.Ranged.IsEmpty())
	require.NotNil(t, res.Thresholded)
	assert.True(t, res.Thresholded.IsEmpty())
	assert.NoError(t, res.ThresholdErr)
}

func TestRunQueryNoNumericValues(t *testing.T) {
	table := loadString(t, "Timestamp,Solar_Radiation\n2023-01-01,\n2023-01-02,n/a\n")

	res, err := RunQuery(table, Query{})
	require.NoError(t, err)

	assert.False(t, res.HasValues)
	assert.True(t, math.IsInf(res.Min, -1))
	assert.True(t, res.Thresholded.IsEmpty())
}

func TestRunQuerySingleBoundOutsideData(t *testing.T) {
	table := loadString(t, scenarioCSV)
	headerOnly := loadString(t, "Timestamp,Solar_Radiation\n")

	tests := []struct {
		name      string
		table     *Table
		q         Query
		wantStart time.Time
		wantEnd   time.Time
		wantRows  int
	}{
		{"start after data", table, Query{Start: ptr(day(31))}, day(31), day(31), 0},
		{"end before data", table, Query{End: ptr(day(1).AddDate(0, -1, 0))}, day(1).AddDate(0, -1, 0), day(1).AddDate(0, -1, 0), 0},
		{"start within data", table, Query{Start: ptr(day(2))}, day(2), day(2), 1},
		{"end within data", table, Query{End: ptr(day(1))}, day(1), day(1), 2},
		{"start before data", table, Query{Start: ptr(day(1).AddDate(0, -1, 0))}, day(1).AddDate(0, -1, 0), day(2), 3},
		{"header only, start", headerOnly, Query{Start: ptr(day(1))}, day(1), day(1), 0},
		{"header only, end", headerOnly, Query{End: ptr(day(1))}, day(1), day(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := RunQuery(tt.table, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, res.Start)
			assert.Equal(t, tt.wantEnd, res.End)
			assert.Equal(t, tt.wantRows, res.Ranged.Len())
			require.NotNil(t, res.Thresholded)
			assert.LessOrEqual(t, res.Thresholded.Len(), tt.wantRows)
		})
	}
}
