package http

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

// handleV1DatasetColumns returns the column list of the loaded table
// GET /api/v1/dataset/columns
func (s *Server) handleV1DatasetColumns(c *gin.Context) {
	table, ok := s.loadTable(c)
	if !ok {
		return
	}

	columns := table.Columns()
	c.JSON(http.StatusOK, gin.H{
		"data": columns,
		"meta": gin.H{
			"count":            len(columns),
			"rows":             table.Len(),
			"timestamp_column": table.TimestampColumn(),
			"source":           s.source.Identity(),
		},
	})
}

// handleV1DatasetSummary returns head, column info, null counts and
// descriptive statistics
// GET /api/v1/dataset/summary?head=5
func (s *Server) handleV1DatasetSummary(c *gin.Context) {
	head := 5
	if h := c.Query("head"); h != "" {
		parsed, err := strconv.Atoi(h)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid head"})
			return
		}
		head = parsed
	}

	table, ok := s.loadTable(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"head":    readings.Records(readings.Head(table, head)),
			"summary": readings.Describe(table),
		},
		"meta": gin.H{
			"source": s.source.Identity(),
		},
	})
}

// handleV1DatasetRefresh drops the cached table and loads the source again
// POST /api/v1/dataset/refresh
func (s *Server) handleV1DatasetRefresh(c *gin.Context) {
	id := s.source.Identity()
	s.cache.Invalidate(id)
	log.Printf("readings cache invalidated for %s", id)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	table, err := s.cache.Get(ctx, s.source)
	if err != nil {
		log.Printf("readings reload failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
			"data":  []any{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": table.Columns(),
		"meta": gin.H{
			"rows":         table.Len(),
			"source":       id,
			"refreshed_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
