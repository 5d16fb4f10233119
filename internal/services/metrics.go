package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instruments for the ranking pipeline, registered once at
// package init and exposed on /metrics.
var (
	rankingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ranking_run_duration_seconds",
		Help:    "End-to-end latency of one ranking run",
		Buckets: prometheus.DefBuckets,
	})

	candidatesScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranking_candidates_scored_total",
		Help: "Candidate videos scored across all ranking runs",
	})

	recommendationsProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranking_recommendations_produced_total",
		Help: "Recommendations surviving filtering and truncation",
	})

	cacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ranking_cache_results_total",
		Help: "Recommendation cache lookups by outcome",
	}, []string{"result"})

	affinityRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "profiling_affinity_runs_total",
		Help: "Completed affinity aggregation runs",
	})

	engagementLabels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ranking_engagement_labels_total",
		Help: "Scored candidates bucketed by engagement-rate label",
	}, []string{"label"})
)
