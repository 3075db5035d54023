// Package metrics collects per-run Prometheus metrics and can export them
// to a node_exporter textfile. A nil *Collector is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the metrics of one run in its own registry
type Collector struct {
	Registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	fieldsTotal     *prometheus.CounterVec
	filesTotal      *prometheus.CounterVec
}

// New creates a collector with a fresh registry
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		Registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arkhamtr_translation_requests_total",
				Help: "Total number of translation backend requests",
			},
			[]string{"provider", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arkhamtr_translation_request_duration_seconds",
				Help:    "Duration of translation backend requests in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "status"},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arkhamtr_translation_retries_total",
				Help: "Total number of translation retries after a failed attempt",
			},
			[]string{"provider"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arkhamtr_cache_lookups_total",
				Help: "Cache lookups by result",
			},
			[]string{"result"},
		),
		fieldsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arkhamtr_fields_total",
				Help: "Card fields seen, by outcome",
			},
			[]string{"field", "outcome"},
		),
		filesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arkhamtr_files_total",
				Help: "Input files processed, by status",
			},
			[]string{"status"},
		),
	}
}

// ObserveRequest records one backend call
func (c *Collector) ObserveRequest(provider string, err error, d time.Duration) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.requestsTotal.WithLabelValues(provider, status).Inc()
	c.requestDuration.WithLabelValues(provider, status).Observe(d.Seconds())
}

// IncRetry records a retry
func (c *Collector) IncRetry(provider string) {
	if c == nil {
		return
	}
	c.retriesTotal.WithLabelValues(provider).Inc()
}

// CacheLookup records a cache hit or miss
func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// FieldOutcome records a field as "translated", "cached" or "skipped"
func (c *Collector) FieldOutcome(field, outcome string) {
	if c == nil {
		return
	}
	c.fieldsTotal.WithLabelValues(field, outcome).Inc()
}

// FileDone records a processed file as "ok", "skipped" or "failed"
func (c *Collector) FileDone(status string) {
	if c == nil {
		return
	}
	c.filesTotal.WithLabelValues(status).Inc()
}

// WriteTextfile writes the registry in the Prometheus text format to path
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
