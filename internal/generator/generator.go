// Package generator produces synthetic hourly solar station readings for
// development and demos.
package generator

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

const (
	defaultPeriods = 48
	comment        = "No issues"
)

// DefaultStart is the first timestamp of generated data.
var DefaultStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// Options configures a generated dataset.
type Options struct {
	Start    time.Time
	Periods  int
	Interval time.Duration
	Seed     int64
}

type uniform struct {
	name     string
	min, max float64
}

// Column ranges of a typical station export.
var uniformColumns = []uniform{
	{"GHI", 150, 300},
	{"DNI", 100, 250},
	{"DHI", 50, 100},
	{"ModA", 100, 200},
	{"ModB", 100, 200},
	{"Tamb", 10, 35},
	{"RH", 30, 80},
	{"WS", 1, 8},
	{"WSgust", 2, 12},
	{"WSstdev", 0.5, 3},
	{"WD", 0, 360},
	{"WDstdev", 5, 15},
	{"BP", 950, 1050},
}

var trailingColumns = []uniform{
	{"Precipitation", 0, 2},
	{"TModA", 10, 30},
	{"TModB", 10, 30},
}

// Dashboard columns charted by the API.
var dashboardColumns = []uniform{
	{readings.DefaultThresholdColumn, 150, 300},
	{"Temperature", 10, 35},
}

// Columns returns the header of generated data in output order.
func Columns() []string {
	cols := []string{readings.DefaultTimestampColumn}
	for _, u := range uniformColumns {
		cols = append(cols, u.name)
	}
	cols = append(cols, "Cleaning")
	for _, u := range trailingColumns {
		cols = append(cols, u.name)
	}
	cols = append(cols, "Comments")
	for _, u := range dashboardColumns {
		cols = append(cols, u.name)
	}
	return cols
}

// Generate builds a table of uniformly distributed readings. The same seed
// always yields the same table.
func Generate(opts Options) *readings.Table {
	if opts.Start.IsZero() {
		opts.Start = DefaultStart
	}
	if opts.Periods <= 0 {
		opts.Periods = defaultPeriods
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	cols := Columns()
	rows := make([]readings.Row, 0, opts.Periods)
	for i := 0; i < opts.Periods; i++ {
		ts := opts.Start.Add(time.Duration(i) * opts.Interval)

		cells := make([]readings.Cell, 0, len(cols))
		cells = append(cells, readings.Cell{Raw: ts.Format("2006-01-02 15:04:05")})
		for _, u := range uniformColumns {
			cells = append(cells, sample(rng, u))
		}
		cells = append(cells, readings.NewCell(strconv.Itoa(rng.Intn(2))))
		for _, u := range trailingColumns {
			cells = append(cells, sample(rng, u))
		}
		cells = append(cells, readings.NewCell(comment))
		for _, u := range dashboardColumns {
			cells = append(cells, sample(rng, u))
		}

		rows = append(rows, readings.Row{Timestamp: ts, Cells: cells})
	}
	return readings.NewTable(cols, readings.DefaultTimestampColumn, rows)
}

func sample(rng *rand.Rand, u uniform) readings.Cell {
	v := u.min + rng.Float64()*(u.max-u.min)
	return readings.NewCell(strconv.FormatFloat(v, 'f', -1, 64))
}
