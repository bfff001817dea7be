package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricGeometryAge    = "geometry.age_seconds"
	MetricRebuildLatency = "geometry.rebuild_latency"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricPathsBuilt  = "business.paths_built"
	MetricRebuildsRun = "business.rebuilds_run"
)

// SLO targets surfaced by the docs endpoint.
const (
	SLOLatencyP95Millis    = 150
	SLOGeometryAgeSeconds  = 86400
	SLOUptimePercentTarget = 99.5
)
