// Package metrics defines the Prometheus collectors exported by the screener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Screening outcomes
const (
	OutcomeSucceeded = "succeeded"
	OutcomeInvalid   = "invalid"
	OutcomeCancelled = "cancelled"
)

var (
	CandidatesScreenedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_candidates_screened_total",
			Help: "Candidates processed by batch screening, by outcome",
		},
		[]string{"outcome"},
	)

	JDMatchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "screener_jd_match_score",
		Help:    "Distribution of computed JD match scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	BatchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "screener_batch_duration_seconds",
		Help:    "Wall time of a screening batch",
		Buckets: prometheus.DefBuckets,
	})

	StatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_status_transitions_total",
			Help: "Reviewer status transitions, by target status",
		},
		[]string{"status"},
	)
)
