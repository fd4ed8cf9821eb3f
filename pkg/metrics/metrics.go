// Package metrics provides Prometheus metrics for the Fern service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExtractionFailuresTotal counts extractor panics or errors by family
	ExtractionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "extraction",
			Name:      "failures_total",
			Help:      "Extractor failures that degraded one entity family to a partial result",
		},
		[]string{"family"},
	)

	// ReconciledRowsTotal counts rows written by reconciliation
	ReconciledRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "reconcile",
			Name:      "rows_total",
			Help:      "Rows touched by reconciliation by family and action",
		},
		[]string{"family", "action"},
	)

	// ReconcileFailuresTotal counts family transactions that were rolled back
	ReconcileFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "reconcile",
			Name:      "failures_total",
			Help:      "Family reconciliations that failed and were rolled back",
		},
		[]string{"family"},
	)

	// ImportsTotal counts document imports by kind and outcome
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "import",
			Name:      "documents_total",
			Help:      "Imported documents by kind and status",
		},
		[]string{"kind", "status"},
	)

	// ImportDuration tracks how long one document import takes
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Duration of a single document import in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	// ValidationFindingsTotal counts advisory validation output
	ValidationFindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "validation",
			Name:      "findings_total",
			Help:      "Validation issues and recommendations by rule",
		},
		[]string{"severity", "rule"},
	)

	// TxLeakWarningsTotal counts transactions held past the leak threshold
	TxLeakWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "database",
			Name:      "tx_leak_warnings_total",
			Help:      "Transactions held open past the configured leak threshold",
		},
	)

	// KafkaMessagesTotal counts consumed raw document messages
	KafkaMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "kafka",
			Name:      "messages_total",
			Help:      "Consumed raw document messages by status",
		},
		[]string{"status"},
	)

	// DLQDocumentsTotal counts documents sent to the dead letter stream
	DLQDocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "dlq",
			Name:      "documents_total",
			Help:      "Documents sent to the dead letter stream by reason",
		},
		[]string{"reason"},
	)
)
