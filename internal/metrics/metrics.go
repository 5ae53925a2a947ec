package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction metrics
var (
	// PredictionsTotal counts completed predictions by sentiment label
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_predictions_total",
			Help: "Completed predictions by sentiment label",
		},
		[]string{"sentiment"},
	)

	// PredictionDuration tracks pipeline latency in seconds
	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinemood_prediction_duration_seconds",
			Help:    "Time spent normalizing, embedding and classifying one review",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	// PredictionErrors counts rejected or failed predictions by kind
	// (invalid_request, model_unavailable, internal)
	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_prediction_errors_total",
			Help: "Rejected or failed predictions by error kind",
		},
		[]string{"kind"},
	)

	// ModelsReady is 1 when embeddings and classifier loaded at startup
	ModelsReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinemood_models_ready",
			Help: "1 if the embedding table and classifier are loaded, 0 otherwise",
		},
	)
)

// Infrastructure metrics
var (
	// CacheOpsTotal tracks result cache operations by operation and status
	CacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_cache_operations_total",
			Help: "Result cache operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// ArchivedResultsTotal counts predictions written to the archive table
	ArchivedResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_archived_results_total",
			Help: "Predictions written to the archive by status",
		},
		[]string{"status"},
	)

	// StreamMessagesTotal counts review stream messages by outcome
	StreamMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_stream_messages_total",
			Help: "Review stream messages processed by outcome",
		},
		[]string{"outcome"},
	)
)
