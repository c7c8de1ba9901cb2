package core

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMetricsNamespace prefixes every exported metric.
const DefaultMetricsNamespace = "landsplit"

// Ingest outcomes recorded on the ingests_total counter.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// codeNone is the code label of successful ingestions.
const codeNone = "none"

// Metrics collects ingestion metrics on a private registry so tests and
// multiple servers in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	ingestsTotal   *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec
	rowsTotal      *prometheus.CounterVec
	bucketRows     *prometheus.CounterVec
	unmatchedRows  *prometheus.CounterVec
	activeIngests  prometheus.GaugeFunc
}

// NewMetrics creates and registers the ingestion collectors. activeFn, when
// non-nil, reports the number of ingestions currently holding a slot.
func NewMetrics(namespace string, activeFn func() float64) *Metrics {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingests_total",
			Help:      "Total number of ingestions by source, outcome and error code",
		}, []string{"source", "outcome", "code"}),
		ingestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent reading and partitioning one spreadsheet",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		rowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Data rows that entered the pipeline",
		}, []string{"source"}),
		bucketRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bucket_rows_total",
			Help:      "Rows emitted per region bucket",
		}, []string{"bucket"}),
		unmatchedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmatched_rows_total",
			Help:      "Rows that matched no region",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		m.ingestsTotal,
		m.ingestDuration,
		m.rowsTotal,
		m.bucketRows,
		m.unmatchedRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if activeFn != nil {
		m.activeIngests = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_ingests",
			Help:      "Ingestions currently holding a limiter slot",
		}, activeFn)
		m.registry.MustRegister(m.activeIngests)
	}

	return m
}

// RecordSuccess records a completed ingestion and its per-bucket row counts.
func (m *Metrics) RecordSuccess(source string, d time.Duration, totalRows, unmatched int, buckets map[string]int) {
	if m == nil {
		return
	}
	m.ingestsTotal.WithLabelValues(source, OutcomeSuccess, codeNone).Inc()
	m.ingestDuration.WithLabelValues(source).Observe(d.Seconds())
	m.rowsTotal.WithLabelValues(source).Add(float64(totalRows))
	m.unmatchedRows.WithLabelValues(source).Add(float64(unmatched))
	for name, n := range buckets {
		m.bucketRows.WithLabelValues(name).Add(float64(n))
	}
}

// RecordFailure records a failed ingestion under its user-facing error code.
func (m *Metrics) RecordFailure(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.ingestsTotal.WithLabelValues(source, OutcomeError, MapError(err).Code).Inc()
	m.ingestDuration.WithLabelValues(source).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
