// Package observability holds the prometheus collectors for import runs.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors recorded by the importer and the image fetcher.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rows         prometheus.Counter
	records      *prometheus.CounterVec
	imageFetches *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_import_rows_total",
			Help: "Data rows read from uploaded import files.",
		}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_import_records_total",
			Help: "Catalog records the importer tried to create, by result.",
		}, []string{"result"}),
		imageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_image_fetch_total",
			Help: "Remote image fetches, by result and failure reason.",
		}, []string{"result", "reason"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_import_run_duration_seconds",
			Help:    "Wall time of complete import runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	m.registry.MustRegister(
		m.rows,
		m.records,
		m.imageFetches,
		m.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RowProcessed() {
	if m == nil {
		return
	}
	m.rows.Inc()
}

func (m *Metrics) RecordCreated(ok bool) {
	if m == nil {
		return
	}
	result := "created"
	if !ok {
		result = "failed"
	}
	m.records.WithLabelValues(result).Inc()
}

// ImageFetched records a fetch outcome; reason is empty on success.
func (m *Metrics) ImageFetched(result, reason string) {
	if m == nil {
		return
	}
	m.imageFetches.WithLabelValues(result, reason).Inc()
}

func (m *Metrics) RunFinished(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}
