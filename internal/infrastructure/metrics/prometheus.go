// Package metrics provides Prometheus metrics for the analysis pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts /analyze outcomes: success, failure, cached
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbonwise_analyses_total",
			Help: "Total number of product analyses",
		},
		[]string{"status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carbonwise_analysis_duration_seconds",
			Help:    "Time taken for a full product analysis",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"status"},
	)

	// EstimatesTotal counts footprint estimates by waterfall step
	EstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbonwise_estimates_total",
			Help: "Total number of footprint estimates by source",
		},
		[]string{"source"},
	)

	// LLMAttemptsTotal counts per-credential LLM calls
	LLMAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbonwise_llm_attempts_total",
			Help: "Total number of LLM calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carbonwise_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carbonwise_scrape_duration_seconds",
			Help:    "Time taken to fetch and extract a product page",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 45},
		},
		[]string{"status"},
	)
)

// Status label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusCached  = "cached"
)
