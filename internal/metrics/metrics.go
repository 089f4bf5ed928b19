// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Upstream call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
	OutcomeNetwork     = "network_error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Upstream access metrics
	IncUpstreamRequest(op, outcome string)
	ObserveUpstreamDuration(op string, duration time.Duration)
	IncUpstreamRetry(op string)
	IncRetryExhausted(op string)

	// Employee mutation metrics
	IncEmployeeCreated()
	IncEmployeeDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
