// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuizSessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "milboard",
		Name:      "quiz_sessions_started_total",
		Help:      "Quiz sessions started, by quiz.",
	}, []string{"quiz_id"})

	QuizSessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "milboard",
		Name:      "quiz_sessions_completed_total",
		Help:      "Quiz passes completed, by quiz and band.",
	}, []string{"quiz_id", "band"})

	QuizActionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "milboard",
		Name:      "quiz_actions_rejected_total",
		Help:      "Session actions ignored because they were invalid in the current state.",
	}, []string{"action"})

	QuizScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "milboard",
		Name:      "quiz_score_percentage",
		Help:      "Distribution of completed quiz percentages.",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	}, []string{"quiz_id"})

	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "milboard",
		Name:      "ws_active_connections",
		Help:      "Open quiz websocket connections.",
	})

	ScansResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "milboard",
		Name:      "scans_resolved_total",
		Help:      "QR scan resolutions by outcome.",
	}, []string{"outcome"})

	ContentCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "milboard",
		Name:      "content_cache_lookups_total",
		Help:      "Quiz definition cache lookups by result.",
	}, []string{"result"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "milboard",
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the per-IP limiter, by route.",
	}, []string{"route"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "milboard",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status class.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)
