package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dues_payments_posted_total",
			Help: "Total number of dues payments posted",
		},
	)

	ImportRowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_import_rows_total",
			Help: "Bulk import rows processed, by outcome",
		},
		[]string{"kind", "outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Outbound notifications, by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)
