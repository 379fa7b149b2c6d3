// Package metrics exposes Prometheus counters for the outbound side effects
// that do not surface in API responses: mirror sync attempts and email
// delivery outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MirrorSyncTotal counts outbox sync attempts by record type and result
	// (completed, retried, exhausted).
	MirrorSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_sync_attempts_total",
		Help: "Outbox mirror sync attempts by record type and result.",
	}, []string{"record_type", "result"})

	// NotificationTotal counts notification deliveries by event and status
	// (sent, failed, skipped).
	NotificationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Notification delivery outcomes by event and status.",
	}, []string{"event", "status"})
)
