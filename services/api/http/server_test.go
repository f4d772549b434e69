package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
	"github.com/02loveslollipop/solar-insights-dashboard/services/api/config"
)

const testCSV = `Timestamp,Solar_Radiation,Temperature
2023-01-01T00:00,180,21.5
2023-01-01T12:00,90,25
2023-01-02T06:00,250,18
`

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error string          `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(path string) config.Config {
	return config.Config{
		DataSource:        path,
		TimestampColumn:   readings.DefaultTimestampColumn,
		ThresholdColumn:   readings.DefaultThresholdColumn,
		TemperatureColumn: "Temperature",
		DefaultLimit:      200,
		ChartWidth:        640,
		ChartHeight:       320,
	}
}

func newTestServer(t *testing.T, data string) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solar_data.csv")
	if data != "" {
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}
	cfg := testConfig(path)
	return New(cfg, readings.FileSource{Path: path})
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func rows(t *testing.T, env envelope) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealthzAndHeaders(t *testing.T) {
	s := newTestServer(t, testCSV)

	w := do(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = do(t, s, http.MethodGet, "/api/v1/dataset/columns")
	assert.Equal(t, "v1", w.Header().Get("X-API-Version"))
}

func TestDatasetColumns(t *testing.T) {
	s := newTestServer(t, testCSV)

	w := do(t, s, http.MethodGet, "/api/v1/dataset/columns")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	var columns []string
	require.NoError(t, json.Unmarshal(env.Data, &columns))
	assert.Equal(t, []string{"Timestamp", "Solar_Radiation", "Temperature"}, columns)
	assert.EqualValues(t, 3, env.Meta["rows"])
}

func TestDatasetSummary(t *testing.T) {
	s := newTestServer(t, testCSV)

	w := do(t, s, http.MethodGet, "/api/v1/dataset/summary?head=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Head    []map[string]any `json:"head"`
			Summary readings.Summary `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Head, 2)
	assert.Equal(t, 3, body.Data.Summary.Rows)
	assert.Len(t, body.Data.Summary.Stats, 2)

	w = do(t, s, http.MethodGet, "/api/v1/dataset/summary?head=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadingsRange(t *testing.T) {
	s := newTestServer(t, testCSV)

	w := do(t, s, http.MethodGet, "/api/v1/readings?start=2023-01-01&end=2023-01-01")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	got := rows(t, env)
	require.Len(t, got, 2)
	assert.EqualValues(t, 180, got[0]["Solar_Radiation"])
	assert.EqualValues(t, 90, got[1]["Solar_Radiation"])
	assert.EqualValues(t, 2, env.Meta["count"])
	assert.Equal(t, "2023-01-01", env.Meta["date_min"])
	assert.Equal(t, "2023-01-02", env.Meta["date_max"])

	w = do(t, s, http.MethodGet, "/api/v1/readings?limit=1")
	env = decode(t, w)
	assert.Len(t, rows(t, env), 1)
	assert.EqualValues(t, 3, env.Meta["count"])
}

func TestReadingsThreshold(t *testing.T) {
	s := newTestServer(t, testCSV)

	w := do(t, s, http.MethodGet, "/api/v1/readings/threshold?start=2023-01-01&end=2023-01-01&min=150")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	got := rows(t, env)
	require.Len(t, got, 1)
	assert.EqualValues(t, 180, got[0]["Solar_Radiation"])
	assert.EqualValues(t, 2, env.Meta["range_count"])

	w = do(t, s, http.MethodGet, "/api/v1/readings/threshold?min=300")
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w)
	assert.Empty(t, rows(t, env))
	assert.Equal(t, noDataMessage, env.Meta["message"])
}

func TestReadingsSingleBoundOutsideData(t *testing.T) {
	s := newTestServer(t, testCSV)
	headerOnly := newTestServer(t, "Timestamp,Solar_Radiation,Temperature\n")

	tests := []struct {
		name   string
		server *Server
		target string
	}{
		{"start after data", s, "/api/v1/readings?start=2023-03-01"},
		{"end before data", s, "/api/v1/readings?end=2022-12-01"},
		{"threshold with start after data", s, "/api/v1/readings/threshold?start=2023-03-01&min=100"},
		{"header only table", headerOnly, "/api/v1/readings?start=2023-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, tt.server, http.MethodGet, tt.target)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			env := decode(t, w)
			assert.Empty(t, rows(t, env))
			assert.EqualValues(t, 0, env.Meta["count"])
			assert.Equal(t, noDataMessage, env.Meta["message"])
		})
	}
}

func TestReadingsBadRequests(t *testing.T) {
	s := newTestServer(t, testCSV)

	tests := []struct {
		name   string
		target string
	}{
		{"missing column", "/api/v1/readings/threshold?column=Irradiance&min=1"},
		{"reversed range", "/api/v1/readings?start=2023-01-03&end=2023-01-01"},
		{"bad date", "/api/v1/readings?start=January"},
		{"bad min", "/api/v1/readings/threshold?min=lots"},
		{"bad limit", "/api/v1/readings?limit=0"},
		{"bad format", "/api/v1/readings/export?format=xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode(t, w).Error)
		})
	}
}

func TestMissingSourceDegrades(t *testing.T) {
	s := newTestServer(t, "")

	w := do(t, s, http.MethodGet, "/api/v1/readings/threshold?min=150")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	env := decode(t, w)
	assert.Contains(t, env.Error, readings.ErrSourceNotFound.Error())
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRefreshPicksUpNewData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solar_data.csv")
	s := New(testConfig(path), readings.FileSource{Path: path})

	w := do(t, s, http.MethodPost, "/api/v1/dataset/refresh")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	w = do(t, s, http.MethodPost, "/api/v1/dataset/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w).Meta["rows"])
}

func TestExport(t *testing.T) {
	s := newTestServer(t, testCSV)

	w := do(t, s, http.MethodGet, "/api/v1/readings/export?start=2023-01-01&end=2023-01-01&min=150")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "readings.csv")

	table, err := readings.Load(context.Background(), readings.ReaderSource{Name: "export", Data: w.Body.Bytes()}, readings.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	w = do(t, s, http.MethodGet, "/api/v1/readings/export?format=parquet")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PAR1")))
}

func TestCharts(t *testing.T) {
	s := newTestServer(t, testCSV)
	pngMagic := []byte("\x89PNG")

	w := do(t, s, http.MethodGet, "/api/v1/charts/solar?min=100")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), pngMagic))

	w = do(t, s, http.MethodGet, "/api/v1/charts/Temperature.png?start=2023-01-02")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), pngMagic))

	w = do(t, s, http.MethodGet, "/api/v1/charts/Solar_Radiation?min=1000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, noDataMessage, w.Header().Get("X-Chart-Message"))

	w = do(t, s, http.MethodGet, "/api/v1/charts/Irradiance")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsExposed(t *testing.T) {
	s := newTestServer(t, testCSV)
	do(t, s, http.MethodGet, "/api/v1/readings")
	do(t, s, http.MethodGet, "/api/v1/readings")

	w := do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `dashboard_cache_events_total{result="hit"`)
	assert.Contains(t, body, "dashboard_loaded_rows")
	assert.Contains(t, body, "dashboard_filter_result_rows")
}
