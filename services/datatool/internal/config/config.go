package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/generator"
	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

const (
	defaultDataSource = "src/solar_data.csv"
	defaultPeriods    = 48
	defaultHead       = 5
)

// Config holds defaults for datatool flags.
type Config struct {
	DataSource      string
	TimestampColumn string
	ThresholdColumn string
	Periods         int
	Head            int
	Start           time.Time
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		DataSource:      defaultDataSource,
		TimestampColumn: readings.DefaultTimestampColumn,
		ThresholdColumn: readings.DefaultThresholdColumn,
		Periods:         defaultPeriods,
		Head:            defaultHead,
		Start:           generator.DefaultStart,
	}

	if v := strings.TrimSpace(os.Getenv("DATA_SOURCE")); v != "" {
		cfg.DataSource = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMESTAMP_COLUMN")); v != "" {
		cfg.TimestampColumn = v
	}
	if v := strings.TrimSpace(os.Getenv("THRESHOLD_COLUMN")); v != "" {
		cfg.ThresholdColumn = v
	}

	if v := strings.TrimSpace(os.Getenv("GENERATE_PERIODS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid GENERATE_PERIODS: %s", v)
		}
		cfg.Periods = n
	}

	if v := strings.TrimSpace(os.Getenv("GENERATE_START")); v != "" {
		ts, err := readings.ParseTimestamp(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GENERATE_START: %w", err)
		}
		cfg.Start = ts
	}

	if v := strings.TrimSpace(os.Getenv("INSPECT_HEAD")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid INSPECT_HEAD: %s", v)
		}
		cfg.Head = n
	}

	return cfg, nil
}

// LoaderOptions returns the options the readings loader runs with.
func (c Config) LoaderOptions() readings.Options {
	return readings.Options{TimestampColumn: c.TimestampColumn}
}
