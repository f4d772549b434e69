package generator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

func TestGenerateDefaults(t *testing.T) {
	table := Generate(Options{Seed: 1})

	require.Equal(t, 48, table.Len())
	assert.Equal(t, Columns(), table.Columns())
	assert.Equal(t, readings.DefaultTimestampColumn, table.TimestampColumn())

	for i := 0; i < table.Len(); i++ {
		want := DefaultStart.Add(time.Duration(i) * time.Hour)
		assert.Equal(t, want, table.Row(i).Timestamp)
	}

	cell, err := table.Value(0, "Comments")
	require.NoError(t, err)
	assert.Equal(t, "No issues", cell.Raw)
}

func TestGenerateRanges(t *testing.T) {
	table := Generate(Options{Seed: 42, Periods: 500})

	for _, u := range append(append(append([]uniform{}, uniformColumns...), trailingColumns...), dashboardColumns...) {
		_, values, err := table.Floats(u.name)
		require.NoError(t, err, u.name)
		require.Len(t, values, 500, u.name)
		for _, v := range values {
			assert.GreaterOrEqual(t, v, u.min, u.name)
			assert.LessOrEqual(t, v, u.max, u.name)
		}
	}

	_, cleaning, err := table.Floats("Cleaning")
	require.NoError(t, err)
	for _, v := range cleaning {
		assert.Contains(t, []float64{0, 1}, v)
	}
}

func TestGenerateIsSeeded(t *testing.T) {
	a := Generate(Options{Seed: 7, Periods: 10})
	b := Generate(Options{Seed: 7, Periods: 10})
	c := Generate(Options{Seed: 8, Periods: 10})

	assert.Equal(t, a.Rows(), b.Rows())
	assert.NotEqual(t, a.Rows(), c.Rows())
}

func TestGeneratedCSVLoads(t *testing.T) {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	table := Generate(Options{Seed: 3, Start: start, Periods: 24, Interval: 30 * time.Minute})

	var buf bytes.Buffer
	require.NoError(t, readings.WriteCSV(&buf, table))

	loaded, err := readings.Load(context.Background(), readings.ReaderSource{Name: "generated", Data: buf.Bytes()}, readings.Options{})
	require.NoError(t, err)
	assert.Equal(t, table.Columns(), loaded.Columns())
	require.Equal(t, 24, loaded.Len())
	assert.True(t, start.Equal(loaded.Row(0).Timestamp))
	assert.True(t, start.Add(23*30*time.Minute).Equal(loaded.Row(23).Timestamp))

	_, want, err := table.Floats(readings.DefaultThresholdColumn)
	require.NoError(t, err)
	_, got, err := loaded.Floats(readings.DefaultThresholdColumn)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
