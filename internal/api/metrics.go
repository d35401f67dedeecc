// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tokoadmin Contributors

package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatusSuccess is the metrics status label for successful dispatches.
// Failure statuses use the classified error kind name.
const StatusSuccess = "success"

// RequestsTotal is the counter for API dispatches.
// Use RegisterMetrics to register this with a Prometheus registry.
var RequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tokoadmin_api_requests_total",
		Help: "Total number of API dispatches",
	},
	[]string{"resource", "method", "status"},
)

// RequestDuration is the histogram for API dispatch duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tokoadmin_api_request_duration_seconds",
		Help:    "API dispatch duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"resource", "method"},
)

// RegisterMetrics registers api package metrics with the given Prometheus
// registry. Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal)
	reg.MustRegister(RequestDuration)
}

// RecordRequest increments the dispatch counter.
func RecordRequest(resource, method, status string) {
	RequestsTotal.WithLabelValues(resource, method, status).Inc()
}

// RecordDuration records the duration of a dispatch.
func RecordDuration(resource, method string, duration time.Duration) {
	RequestDuration.WithLabelValues(resource, method).Observe(duration.Seconds())
}
