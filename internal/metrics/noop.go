package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUpstreamRequest is a no-op.
func (n *NoopRecorder) IncUpstreamRequest(op, outcome string) {}

// ObserveUpstreamDuration is a no-op.
func (n *NoopRecorder) ObserveUpstreamDuration(op string, duration time.Duration) {}

// IncUpstreamRetry is a no-op.
func (n *NoopRecorder) IncUpstreamRetry(op string) {}

// IncRetryExhausted is a no-op.
func (n *NoopRecorder) IncRetryExhausted(op string) {}

// IncEmployeeCreated is a no-op.
func (n *NoopRecorder) IncEmployeeCreated() {}

// IncEmployeeDeleted is a no-op.
func (n *NoopRecorder) IncEmployeeDeleted() {}
