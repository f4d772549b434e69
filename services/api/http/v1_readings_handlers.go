package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

const noDataMessage = "no data matches current filters"

// handleV1Readings returns the range-filtered preview
// GET /api/v1/readings?start=2023-01-01&end=2023-01-02&limit=200
func (s *Server) handleV1Readings(c *gin.Context) {
	q, ok := parseQuery(c, s.cfg.ThresholdColumn)
	if !ok {
		return
	}
	limit, ok := s.parseLimit(c)
	if !ok {
		return
	}

	table, ok := s.loadTable(c)
	if !ok {
		return
	}
	res, ok := s.runQuery(c, table, q)
	if !ok {
		return
	}

	preview := readings.Head(res.Ranged, limit)
	meta := rangeMeta(res)
	meta["returned"] = preview.Len()
	meta["limit"] = limit

	c.JSON(http.StatusOK, gin.H{
		"data": readings.Records(preview),
		"meta": meta,
	})
}

// handleV1ReadingsThreshold returns rows within the range whose column value
// is at least min
// GET /api/v1/readings/threshold?start=2023-01-01&end=2023-01-02&column=Solar_Radiation&min=150
func (s *Server) handleV1ReadingsThreshold(c *gin.Context) {
	q, ok := parseQuery(c, s.cfg.ThresholdColumn)
	if !ok {
		return
	}

	table, ok := s.loadTable(c)
	if !ok {
		return
	}
	res, ok := s.runQuery(c, table, q)
	if !ok {
		return
	}

	if res.ThresholdErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": res.ThresholdErr.Error(),
			"data":  []any{},
			"meta":  rangeMeta(res),
		})
		return
	}

	meta := thresholdMeta(res)
	c.JSON(http.StatusOK, gin.H{
		"data": readings.Records(res.Thresholded),
		"meta": meta,
	})
}

// handleV1ReadingsExport downloads filtered rows as CSV or Parquet. The
// threshold is applied when column or min is given.
// GET /api/v1/readings/export?format=parquet&start=2023-01-01&min=150
func (s *Server) handleV1ReadingsExport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "parquet" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format, expected csv or parquet"})
		return
	}

	q, ok := parseQuery(c, s.cfg.ThresholdColumn)
	if !ok {
		return
	}

	table, ok := s.loadTable(c)
	if !ok {
		return
	}
	res, ok := s.runQuery(c, table, q)
	if !ok {
		return
	}

	out := res.Ranged
	if c.Query("column") != "" || c.Query("min") != "" {
		if res.ThresholdErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": res.ThresholdErr.Error()})
			return
		}
		out = res.Thresholded
	}

	var buf bytes.Buffer
	var err error
	contentType := "text/csv"
	if format == "parquet" {
		contentType = "application/vnd.apache.parquet"
		err = readings.WriteParquet(&buf, out)
	} else {
		err = readings.WriteCSV(&buf, out)
	}
	if err != nil {
		log.Printf("export %s failed: %v", format, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="readings.%s"`, format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// loadTable fetches the cached table. Load failures degrade to an empty
// payload with the reported cause.
func (s *Server) loadTable(c *gin.Context) (*readings.Table, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	table, err := s.cache.Get(ctx, s.source)
	if err != nil {
		log.Printf("readings load failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
			"data":  []any{},
		})
		return nil, false
	}
	return table, true
}

func (s *Server) runQuery(c *gin.Context, table *readings.Table, q readings.Query) (readings.QueryResult, bool) {
	res, err := readings.RunQuery(table, q)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, readings.ErrInvalidRange) || errors.Is(err, readings.ErrMissingColumn) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return res, false
	}

	s.metrics.observeFilter("range", res.Ranged.Len())
	if res.Thresholded != nil {
		s.metrics.observeFilter("threshold", res.Thresholded.Len())
	}
	return res, true
}

// parseQuery reads start, end, column and min. Dates are YYYY-MM-DD or
// RFC3339; only their calendar date is used.
func parseQuery(c *gin.Context, defaultColumn string) (readings.Query, bool) {
	q := readings.Query{Column: defaultColumn}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"start", &q.Start}, {"end", &q.End}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		d, err := parseDateParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", p.name, err)})
			return q, false
		}
		*p.dst = &d
	}

	if col := strings.TrimSpace(c.Query("column")); col != "" {
		q.Column = col
	}

	if minStr := c.Query("min"); minStr != "" {
		min, err := strconv.ParseFloat(minStr, 64)
		if err != nil || math.IsNaN(min) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min"})
			return q, false
		}
		q.Min = &min
	}

	return q, true
}

func parseDateParam(raw string) (time.Time, error) {
	if d, err := readings.ParseDate(raw); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("expected YYYY-MM-DD or RFC3339")
	}
	return readings.DateOf(t), nil
}

func (s *Server) parseLimit(c *gin.Context) (int, bool) {
	limit := s.cfg.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return 0, false
		}
		limit = parsed
	}
	return limit, true
}

func rangeMeta(res readings.QueryResult) gin.H {
	meta := gin.H{
		"count":   res.Ranged.Len(),
		"columns": res.Columns,
	}
	if res.HasDates {
		meta["start"] = res.Start.Format(time.DateOnly)
		meta["end"] = res.End.Format(time.DateOnly)
		meta["date_min"] = res.DateMin.Format(time.DateOnly)
		meta["date_max"] = res.DateMax.Format(time.DateOnly)
	}
	if res.Ranged.IsEmpty() {
		meta["message"] = noDataMessage
	}
	return meta
}

func thresholdMeta(res readings.QueryResult) gin.H {
	meta := gin.H{
		"count":       res.Thresholded.Len(),
		"range_count": res.Ranged.Len(),
		"column":      res.Column,
	}
	if !math.IsInf(res.Min, 0) {
		meta["min"] = res.Min
	}
	if res.HasValues {
		meta["value_min"] = res.ValueMin
		meta["value_max"] = res.ValueMax
	}
	if res.HasDates {
		meta["start"] = res.Start.Format(time.DateOnly)
		meta["end"] = res.End.Format(time.DateOnly)
	}
	if res.Thresholded.IsEmpty() {
		meta["message"] = noDataMessage
	}
	return meta
}
