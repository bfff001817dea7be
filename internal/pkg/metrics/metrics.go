package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "arcline",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "arcline",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Geometry metrics
	PathsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "geo",
		Name:      "paths_built_total",
		Help:      "Total geodesic geometries built",
	}, []string{"kind"}) // path | circle | preview

	PointsProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "geo",
		Name:      "points_produced_total",
		Help:      "Total vertices emitted across built geometries",
	})

	SegmentsProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "geo",
		Name:      "segments_produced_total",
		Help:      "Total polyline segments emitted across built geometries",
	})

	NonConvergent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "geo",
		Name:      "nonconvergent_total",
		Help:      "Total geodesic computations that failed to converge",
	})

	GeometryRebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "geo",
		Name:      "rebuilds_total",
		Help:      "Total stored-route geometry rebuilds",
	}, []string{"trigger"}) // api | command | stale | workflow

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "arcline",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arcline",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "arcline",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "arcline",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "arcline",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// ObserveBuild records the output size of a built geometry.
func ObserveBuild(kind string, segments, points int) {
	PathsBuilt.WithLabelValues(kind).Inc()
	SegmentsProduced.Add(float64(segments))
	PointsProduced.Add(float64(points))
}

// UpdateDBPoolMetrics updates database pool gauges from pgx pool stats.
// The stats are asserted through an interface so this package does not
// import pgx.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
