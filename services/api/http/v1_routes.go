package http

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/dataset, /api/v1/readings, /api/v1/charts
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Dataset endpoints - loaded table diagnostics and cache control
	dataset := v1.Group("/dataset")
	{
		dataset.GET("/columns", s.handleV1DatasetColumns)
		dataset.GET("/summary", s.handleV1DatasetSummary)
		dataset.POST("/refresh", s.handleV1DatasetRefresh)
	}

	// Readings endpoints - range and threshold filtered rows
	rd := v1.Group("/readings")
	{
		rd.GET("", s.handleV1Readings)
		rd.GET("/threshold", s.handleV1ReadingsThreshold)
		rd.GET("/export", s.handleV1ReadingsExport)
	}

	// Chart endpoints - PNG line charts over filtered rows
	charts := v1.Group("/charts")
	{
		charts.GET("/:column", s.handleV1Chart)
	}
}
