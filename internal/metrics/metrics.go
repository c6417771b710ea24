// Package metrics provides Prometheus metrics for MedLink.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "medlink"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks concurrent HTTP requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)
)

// Alert lifecycle metrics
var (
	// AlertsCreatedTotal counts transmitted alerts by severity.
	AlertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "created_total",
			Help:      "Total pre-arrival alerts transmitted",
		},
		[]string{"severity"},
	)

	// AlertsIncoming tracks alerts currently in Incoming status.
	AlertsIncoming = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "incoming",
			Help:      "Alerts currently awaiting arrival",
		},
	)

	// StatusTransitionsTotal counts status changes by target status.
	StatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "status_transitions_total",
			Help:      "Total alert status transitions",
		},
		[]string{"to"},
	)

	// ETATicksTotal counts ETA decrement passes over the board.
	ETATicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "eta_ticks_total",
			Help:      "Total ETA decrement ticks applied to the board",
		},
	)
)

// Scribe metrics
var (
	// ScribeSessionsActive tracks open scribe streaming sessions.
	ScribeSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scribe",
			Name:      "sessions_active",
			Help:      "Number of active scribe voice sessions",
		},
	)

	// ScribeToolCallsTotal counts tool calls handled by the bridge.
	ScribeToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scribe",
			Name:      "tool_calls_total",
			Help:      "Total scribe tool calls by tool name",
		},
		[]string{"tool"},
	)
)
