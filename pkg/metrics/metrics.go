package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal counts scenario predictions per model target.
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewise_model_predictions_total",
			Help: "Total number of trade scenario predictions",
		},
		[]string{"model_type"},
	)

	// TrainingRunsTotal counts trainer fits by outcome.
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewise_training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"status"},
	)

	// TrainingDuration observes wall-clock fit time.
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradewise_training_duration_seconds",
			Help:    "Duration of model training in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// RankingsTotal counts dealer ranking requests.
	RankingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradewise_dealer_rankings_total",
			Help: "Total number of dealer ranking computations",
		},
	)

	// RequestDuration observes HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "tradewise_api_request_duration_seconds",
			Help: "HTTP request latency by method and path",
		},
		[]string{"method", "path"},
	)
)
