package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics registry and standard meters.
type Metrics struct {
	Registry           *prometheus.Registry
	OperationDuration  *prometheus.HistogramVec
	OperationTotal     *prometheus.CounterVec
	DocumentsProcessed *prometheus.CounterVec
	ValidationIssues   *prometheus.CounterVec
	BytesProcessed     *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics creates a custom Prometheus registry with the vcon-info meters.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vcon_operation_duration_seconds",
		Help:    "Duration of operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	opTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vcon_operation_total",
		Help: "Total number of operations.",
	}, []string{"operation", "status"})

	documents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vcon_documents_processed_total",
		Help: "Total vCon documents processed, by envelope format and overall status.",
	}, []string{"format", "status"})

	issues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vcon_validation_issues_total",
		Help: "Total validation diagnostics emitted, by severity.",
	}, []string{"severity"})

	bytesProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vcon_bytes_processed_total",
		Help: "Total bytes processed.",
	}, []string{"direction"})

	errorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vcon_errors_total",
		Help: "Total number of errors.",
	}, []string{"operation", "type"})

	reg.MustRegister(opDuration, opTotal, documents, issues, bytesProcessed, errorsTotal)

	return &Metrics{
		Registry:           reg,
		OperationDuration:  opDuration,
		OperationTotal:     opTotal,
		DocumentsProcessed: documents,
		ValidationIssues:   issues,
		BytesProcessed:     bytesProcessed,
		ErrorsTotal:        errorsTotal,
	}
}

// RecordDocument counts one processing pass.
func (m *Metrics) RecordDocument(format, status string, errors, warnings int) {
	m.DocumentsProcessed.WithLabelValues(format, status).Inc()
	m.ValidationIssues.WithLabelValues("error").Add(float64(errors))
	m.ValidationIssues.WithLabelValues("warning").Add(float64(warnings))
}
