package readings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// scenarioCSV holds the three reference rows used across the tests.
const scenarioCSV = `Timestamp,Solar_Radiation,Temperature
2023-01-01T00:00,180,21.5
2023-01-01T12:00,90,25
2023-01-02T06:00,250,18
`

func loadString(t *testing.T, data string) *Table {
	t.Helper()
	table, err := Load(context.Background(), ReaderSource{Name: t.Name(), Data: []byte(data)}, Options{})
	require.NoError(t, err)
	return table
}

func radiation(t *testing.T, table *Table) []float64 {
	t.Helper()
	_, values, err := table.Floats(DefaultThresholdColumn)
	require.NoError(t, err)
	return values
}
