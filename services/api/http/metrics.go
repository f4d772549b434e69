package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records cache and filter activity on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	cacheEvents  *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadedRows   *prometheus.GaugeVec
	filterRows   *prometheus.HistogramVec
}

// NewMetrics registers the dashboard collectors plus Go and process metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_events_total",
			Help: "Readings cache lookups by result.",
		}, []string{"source", "result"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_load_duration_seconds",
			Help:    "Duration of readings loads.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source", "status"}),
		loadedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dashboard_loaded_rows",
			Help: "Rows in the most recently loaded table.",
		}, []string{"source"}),
		filterRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_filter_result_rows",
			Help:    "Rows returned by each filter stage.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"filter"}),
	}

	registry.MustRegister(m.cacheEvents, m.loadDuration, m.loadedRows, m.filterRows)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit(identity string) {
	m.cacheEvents.WithLabelValues(identity, "hit").Inc()
}

func (m *Metrics) CacheMiss(identity string) {
	m.cacheEvents.WithLabelValues(identity, "miss").Inc()
}

func (m *Metrics) Loaded(identity string, rows int, took time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		m.loadedRows.WithLabelValues(identity).Set(float64(rows))
	}
	m.loadDuration.WithLabelValues(identity, status).Observe(took.Seconds())
}

func (m *Metrics) observeFilter(filter string, rows int) {
	m.filterRows.WithLabelValues(filter).Observe(float64(rows))
}
