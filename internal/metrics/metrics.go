// Package metrics registers the Prometheus instruments shared across
// the application. All instruments use the default registry and are
// exposed through the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsDispatched counts dispatcher outcomes per kind and
	// channel. Channel is one of store, realtime, email.
	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_notifications_dispatched_total",
			Help: "Notification deliveries by kind, channel and outcome",
		},
		[]string{"kind", "channel", "outcome"},
	)

	// RequestTransitions counts request lifecycle transitions by target
	// state and outcome.
	RequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_request_transitions_total",
			Help: "Request lifecycle transitions by target status and outcome",
		},
		[]string{"to", "outcome"},
	)

	// SweepRuns counts reminder sweep executions.
	SweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_sweep_runs_total",
			Help: "Reminder sweep executions by outcome",
		},
		[]string{"outcome"},
	)

	// SweepDuration observes how long a full sweep takes.
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "records_sweep_duration_seconds",
			Help:    "Duration of a reminder sweep in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RemindersSent counts reminders that actually went out, by kind.
	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_reminders_sent_total",
			Help: "Due and overdue reminders sent by kind",
		},
		[]string{"kind"},
	)

	// RemindersDeduped counts reminders suppressed by the ledger.
	RemindersDeduped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_reminders_deduplicated_total",
			Help: "Reminders suppressed because the slot was already claimed",
		},
		[]string{"kind"},
	)

	// HTTPRequestsTotal counts HTTP requests by method, route pattern
	// and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route
	// pattern. Route patterns keep UUID path segments out of the labels.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "records_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
