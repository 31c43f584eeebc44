// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DirectionProfileToMember = "profile_to_member"
	DirectionMemberToProfile = "member_to_profile"

	ResultOK       = "ok"
	ResultError    = "error"
	ResultSkipped  = "skipped"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
)

var (
	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_otp_verifications_total",
		Help: "OTP verification attempts by result",
	}, []string{"result"})

	OTPSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "community_otp_sent_total",
		Help: "OTP codes issued",
	})

	SyncPropagations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_sync_propagations_total",
		Help: "Member/profile propagation writes by direction and result",
	}, []string{"direction", "result"})

	HeadTransfers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "community_family_head_transfers_total",
		Help: "Completed family head transfers",
	})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_notifications_total",
		Help: "Notification rows written by type",
	}, []string{"type"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "community_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method"})
)

// ObserveSync records one propagation outcome.
func ObserveSync(direction, result string) {
	SyncPropagations.WithLabelValues(direction, result).Inc()
}
