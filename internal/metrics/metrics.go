package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	// HTTPRequestsTotal tracks requests by route template, method and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"route", "method"},
	)

	// HTTPErrorsTotal tracks error responses by error kind
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP error responses by error kind",
		},
		[]string{"kind"},
	)
)

// Engagement Metrics
var (
	// PollVotesTotal tracks vote attempts by outcome (accepted, duplicate, expired, retry_exhausted, ...)
	PollVotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_votes_total",
			Help: "Total poll vote attempts by result",
		},
		[]string{"result"},
	)

	// MessageLikesTotal tracks like toggles by action (liked/unliked)
	MessageLikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_likes_total",
			Help: "Total message like toggles by action",
		},
		[]string{"action"},
	)

	// RevisionConflictsTotal tracks optimistic-concurrency retries by collection
	RevisionConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_revision_conflicts_total",
			Help: "Revision-guarded writes that lost a race and were retried",
		},
		[]string{"collection"},
	)
)

// Activity Metrics
var (
	// ActivityEventsTotal tracks published activity events by type and status (published/failed)
	ActivityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_events_total",
			Help: "Total activity events published by type and status",
		},
		[]string{"type", "status"},
	)

	// WorkerMessagesTotal tracks consumed stream messages by result (processed/requeued/dead_lettered/skipped)
	WorkerMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_messages_total",
			Help: "Total activity stream messages handled by the worker by result",
		},
		[]string{"result"},
	)

	// WorkerProcessingDuration tracks per-message processing latency in seconds
	WorkerProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "worker_processing_duration_seconds",
			Help:    "Activity message processing duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)
