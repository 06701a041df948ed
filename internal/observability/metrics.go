// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by cache and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_cache_lookups_total",
		Help: "Cache lookups by cache name and result",
	}, []string{"cache", "result"})

	// AuthEvents counts signup and signin outcomes.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_auth_events_total",
		Help: "Signup and signin attempts by outcome",
	}, []string{"operation", "outcome"})

	// PostMutations counts successful post mutations by type.
	PostMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_post_mutations_total",
		Help: "Successful post mutations by type",
	}, []string{"type"})

	// FeedConnections is the number of open live feed WebSocket connections.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bloghub_feed_connections",
		Help: "Open live feed WebSocket connections",
	})

	// FeedDrops counts feed messages dropped because a client could not keep up.
	FeedDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloghub_feed_dropped_messages_total",
		Help: "Feed messages dropped due to backpressure",
	})
)
