package readings

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryCSV = `Timestamp,GHI,Comments,Blank
2023-01-01 00:00,1,ok,
2023-01-01 01:00,2,,
2023-01-01 02:00,3,fine,
2023-01-01 03:00,,x,
`

func TestDescribe(t *testing.T) {
	summary := Describe(loadString(t, summaryCSV))

	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, []ColumnInfo{
		{Name: "Timestamp", Kind: KindDatetime, NonNull: 4, Nulls: 0, Position: 0},
		{Name: "GHI", Kind: KindNumeric, NonNull: 3, Nulls: 1, Position: 1},
		{Name: "Comments", Kind: KindText, NonNull: 3, Nulls: 1, Position: 2},
		{Name: "Blank", Kind: KindText, NonNull: 0, Nulls: 4, Position: 3},
	}, summary.Columns)

	require.Len(t, summary.Stats, 1)
	st := summary.Stats[0]
	assert.Equal(t, "GHI", st.Column)
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 2.0, st.Mean, 1e-9)
	assert.InDelta(t, 1.0, st.Std, 1e-9)
	assert.Equal(t, 1.0, st.Min)
	assert.InDelta(t, 1.5, st.P25, 1e-9)
	assert.InDelta(t, 2.0, st.P50, 1e-9)
	assert.InDelta(t, 2.5, st.P75, 1e-9)
	assert.Equal(t, 3.0, st.Max)
}

func TestDescribeEmpty(t *testing.T) {
	summary := Describe(Empty())
	assert.Zero(t, summary.Rows)
	assert.Empty(t, summary.Columns)
	assert.Empty(t, summary.Stats)
}

func TestStatsJSONWritesNullForUndefined(t *testing.T) {
	summary := Describe(loadString(t, "Timestamp,GHI\n2023-01-01,5\n"))
	require.Len(t, summary.Stats, 1)
	assert.True(t, math.IsNaN(summary.Stats[0].Std))

	b, err := json.Marshal(summary.Stats[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"column":"GHI","count":1,"mean":5,"std":null,"min":5,"p25":5,"p50":5,"p75":5,"max":5}`, string(b))
}

func TestHead(t *testing.T) {
	table := loadString(t, summaryCSV)

	tests := []struct {
		n    int
		want int
	}{
		{n: 2, want: 2},
		{n: 10, want: 4},
		{n: 0, want: 0},
		{n: -1, want: 0},
	}
	for _, tt := range tests {
		head := Head(table, tt.n)
		assert.Equal(t, tt.want, head.Len(), "n=%d", tt.n)
		assert.Equal(t, table.Columns(), head.Columns())
	}
}
