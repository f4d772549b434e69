package http

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	chart "github.com/wcharczuk/go-chart/v2"
)

// handleV1Chart renders a column over time as a PNG line chart. With min the
// threshold is applied to the charted column first.
// GET /api/v1/charts/Solar_Radiation?start=2023-01-01&end=2023-01-02&min=150
// GET /api/v1/charts/Temperature.png?start=2023-01-01
// The aliases "solar" and "temperature" resolve to the configured columns.
func (s *Server) handleV1Chart(c *gin.Context) {
	column := s.chartColumn(c.Param("column"))
	if column == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	q, ok := parseQuery(c, column)
	if !ok {
		return
	}
	q.Column = column

	table, ok := s.loadTable(c)
	if !ok {
		return
	}
	res, ok := s.runQuery(c, table, q)
	if !ok {
		return
	}

	data := res.Ranged
	title := fmt.Sprintf("%s Over Time", strings.ReplaceAll(column, "_", " "))
	if q.Min != nil {
		if res.ThresholdErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": res.ThresholdErr.Error()})
			return
		}
		data = res.Thresholded
		title += " (Filtered)"
	}

	times, values, err := data.Floats(column)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(values) == 0 {
		c.Header("X-Chart-Message", noDataMessage)
		c.Status(http.StatusNoContent)
		return
	}

	png, err := renderLineChart(title, column, times, values, s.cfg.ChartWidth, s.cfg.ChartHeight)
	if err != nil {
		log.Printf("chart %s render failed: %v", column, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) chartColumn(param string) string {
	column := strings.TrimSuffix(strings.TrimSpace(param), ".png")
	switch column {
	case "solar":
		return s.cfg.ThresholdColumn
	case "temperature":
		return s.cfg.TemperatureColumn
	}
	return column
}

func renderLineChart(title, column string, times []time.Time, values []float64, width, height int) ([]byte, error) {
	// go-chart needs at least two X values
	if len(times) == 1 {
		times = []time.Time{times[0], times[0].Add(time.Second)}
		values = []float64{values[0], values[0]}
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	yAxis := chart.YAxis{Name: column}
	if lo == hi {
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Timestamp",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02 15:04"),
		},
		YAxis: yAxis,
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    column,
				XValues: times,
				YValues: values,
				Style:   chart.Style{StrokeWidth: 2, StrokeColor: chart.ColorBlue},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
