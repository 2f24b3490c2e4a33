// Package observability holds tracing setup and Prometheus metrics shared
// across the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateLimitRejections counts admission-control rejections by action.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftboard_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter, by action",
	}, []string{"action"})

	// SearchFallbacks counts queries served by the substring fallback path
	// because the full-text index was unavailable or disabled.
	SearchFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftboard_search_fallback_total",
		Help: "Total number of search queries served by the fallback path",
	})

	// ViewsRecorded counts first-time view increments (duplicates excluded).
	ViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftboard_views_recorded_total",
		Help: "Total number of unique post views recorded",
	})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftboard_like_toggles_total",
		Help: "Total number of like toggles by resulting state (liked/unliked)",
	}, []string{"state"})

	// RedisErrors counts Redis command failures by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftboard_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
