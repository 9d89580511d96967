// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotifyRequestsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_requests_received_total",
			Help: "Total number of notification requests received",
		},
	)

	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notification emails delivered",
		},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notifications that failed, by reason",
		},
		[]string{"reason"},
	)

	NotifyRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notify_request_duration_seconds",
			Help: "Duration of notification request processing in seconds",
		},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Total number of audit log writes that failed",
		},
	)
)
