package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

// Config holds environment-driven settings for the dashboard API.
type Config struct {
	DataSource        string
	DatabaseURL       string
	ReadingsTable     string
	TimestampColumn   string
	ThresholdColumn   string
	TemperatureColumn string
	Port              int
	DefaultLimit      int
	ChartWidth        int
	ChartHeight       int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		DataSource:        "src/solar_data.csv",
		ReadingsTable:     "solar_readings",
		TimestampColumn:   readings.DefaultTimestampColumn,
		ThresholdColumn:   readings.DefaultThresholdColumn,
		TemperatureColumn: "Temperature",
		Port:              8080,
		DefaultLimit:      200,
		ChartWidth:        1200,
		ChartHeight:       600,
	}

	if v := strings.TrimSpace(os.Getenv("DATA_SOURCE")); v != "" {
		cfg.DataSource = v
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if v := strings.TrimSpace(os.Getenv("READINGS_TABLE")); v != "" {
		cfg.ReadingsTable = v
	}

	if v := strings.TrimSpace(os.Getenv("TIMESTAMP_COLUMN")); v != "" {
		cfg.TimestampColumn = v
	}
	if v := strings.TrimSpace(os.Getenv("THRESHOLD_COLUMN")); v != "" {
		cfg.ThresholdColumn = v
	}
	if v := strings.TrimSpace(os.Getenv("TEMPERATURE_COLUMN")); v != "" {
		cfg.TemperatureColumn = v
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if limitStr := os.Getenv("API_DEFAULT_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			cfg.DefaultLimit = limit
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_LIMIT: %s", limitStr)
		}
	}

	if widthStr := os.Getenv("CHART_WIDTH"); widthStr != "" {
		if width, err := strconv.Atoi(widthStr); err == nil && width > 0 {
			cfg.ChartWidth = width
		} else {
			return cfg, fmt.Errorf("invalid CHART_WIDTH: %s", widthStr)
		}
	}

	if heightStr := os.Getenv("CHART_HEIGHT"); heightStr != "" {
		if height, err := strconv.Atoi(heightStr); err == nil && height > 0 {
			cfg.ChartHeight = height
		} else {
			return cfg, fmt.Errorf("invalid CHART_HEIGHT: %s", heightStr)
		}
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// UsePostgres reports whether readings come from a database table instead of
// the CSV file.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// LoaderOptions returns the options the readings loader runs with.
func (c Config) LoaderOptions() readings.Options {
	return readings.Options{TimestampColumn: c.TimestampColumn}
}
