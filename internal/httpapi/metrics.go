package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thermowatch_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thermowatch_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint", "method"},
	)

	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thermowatch_predictions_total",
			Help: "Total number of predictions served, by status",
		},
		[]string{"status"},
	)

	anomaliesDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thermowatch_anomalies_detected_total",
			Help: "Total number of warning and critical classifications",
		},
	)

	lastConfidence = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thermowatch_last_confidence",
			Help: "Confidence of the most recent classification",
		},
	)

	predictionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thermowatch_prediction_latency_seconds",
			Help:    "Feature extraction and classification latency in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
	)
)
