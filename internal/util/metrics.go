package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrackRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "track_requests_total",
		Help: "Total number of order tracking requests",
	})

	TrackFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "track_failures_total",
		Help: "Total number of failed tracking requests",
	}, []string{"reason"})

	SnapshotCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_cache_hits_total",
		Help: "Total number of tracking snapshot cache hits",
	})

	SnapshotCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_cache_misses_total",
		Help: "Total number of tracking snapshot cache misses",
	})

	CounterRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "counter_refresh_total",
		Help: "Total number of badge counter refreshes",
	}, []string{"kind"})

	CounterRefreshFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "counter_refresh_failed_total",
		Help: "Total number of failed badge counter refreshes",
	}, []string{"kind"})

	StaleResponsesDiscardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stale_responses_discarded_total",
		Help: "Total number of poll responses discarded by the sequence guard",
	}, []string{"kind"})

	NotificationsClearedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_cleared_total",
		Help: "Total number of successful notification clears",
	})

	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total number of chat messages handled",
	}, []string{"sender"})

	ChatRedirectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_redirects_total",
		Help: "Total number of storefront redirects triggered by chat directives",
	})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Latency of requests against the storefront backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
