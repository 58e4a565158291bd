package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics that are exposed by the application.

// httpRequestsTotal is a Prometheus counter vector that tracks the total number of HTTP requests.
// It is partitioned by the request's URL path, HTTP method, and the resulting status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aerocast_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// predictionsTotal counts served forecasts, partitioned by whether they came
// from the remote model or from local synthesis.
var predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aerocast_predictions_total",
	Help: "Total number of forecasts served by source (model or fallback).",
}, []string{"source"})

// modelStatusGauge exports the status monitor's current state.
var modelStatusGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "aerocast_model_status",
	Help: "Current model status: 0 active, 1 fallback, 2 error.",
})

// persistenceErrors counts forecast archive writes that failed.
var persistenceErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "aerocast_persistence_errors_total",
	Help: "Total number of failed forecast archive writes.",
})

// externalRequestDuration observes round-trip times of outgoing HTTP calls,
// partitioned by target host. Failed round trips are observed too.
var externalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "aerocast_external_request_duration_seconds",
	Help:    "Duration of outgoing HTTP requests by host.",
	Buckets: prometheus.DefBuckets,
}, []string{"host"})

// modelStateValue maps a ModelState to its gauge value.
func modelStateValue(state ModelState) float64 {
	switch state {
	case ModelStateActive:
		return 0
	case ModelStateFallback:
		return 1
	default:
		return 2
	}
}
