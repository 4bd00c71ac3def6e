// Package metrics exposes the ingestion pipeline's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters. A nil *Metrics is a valid "no
// metrics" value; callers guard their increments.
type Metrics struct {
	RowsSkipped         prometheus.Counter
	CandidatesKept      prometheus.Counter
	CandidatesDropped   prometheus.Counter
	DuplicatesCollapsed prometheus.Counter
	StatementsProcessed prometheus.Counter
	StatementsFailed    prometheus.Counter
}

// New registers the counters with reg. A nil registerer yields working
// but unregistered counters, which keeps tests independent.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statements",
			Subsystem: "pipeline",
			Name:      "rows_skipped_total",
			Help:      "CSV rows dropped before validation for a bad amount or date.",
		}),
		CandidatesKept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statements",
			Subsystem: "pipeline",
			Name:      "candidates_kept_total",
			Help:      "Candidate transactions that passed final validation.",
		}),
		CandidatesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statements",
			Subsystem: "pipeline",
			Name:      "candidates_dropped_total",
			Help:      "Candidate transactions dropped by final validation.",
		}),
		DuplicatesCollapsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statements",
			Subsystem: "pipeline",
			Name:      "duplicates_collapsed_total",
			Help:      "Image candidates collapsed by first-seen deduplication.",
		}),
		StatementsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statements",
			Subsystem: "lifecycle",
			Name:      "processed_total",
			Help:      "Statements that reached the processed state.",
		}),
		StatementsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statements",
			Subsystem: "lifecycle",
			Name:      "failed_total",
			Help:      "Statements that reached the failed state.",
		}),
	}
}
