package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// RequestKey identifies an upstream request counter.
type RequestKey struct {
	Op      string
	Outcome string
}

// DurationStat aggregates observed upstream durations for one operation.
type DurationStat struct {
	Count   uint64
	TotalNs int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UpstreamRequests  map[RequestKey]uint64
	UpstreamDurations map[string]DurationStat
	UpstreamRetries   map[string]uint64
	RetriesExhausted  map[string]uint64
	EmployeesCreated  uint64
	EmployeesDeleted  uint64
}

// SortedRequestKeys returns the request keys ordered by op then outcome.
func (s Snapshot) SortedRequestKeys() []RequestKey {
	keys := make([]RequestKey, 0, len(s.UpstreamRequests))
	for k := range s.UpstreamRequests {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Op != keys[j].Op {
			return keys[i].Op < keys[j].Op
		}
		return keys[i].Outcome < keys[j].Outcome
	})
	return keys
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	mu                sync.Mutex
	upstreamRequests  map[RequestKey]uint64
	upstreamDurations map[string]DurationStat
	upstreamRetries   map[string]uint64
	retriesExhausted  map[string]uint64

	employeesCreated uint64
	employeesDeleted uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		upstreamRequests:  make(map[RequestKey]uint64),
		upstreamDurations: make(map[string]DurationStat),
		upstreamRetries:   make(map[string]uint64),
		retriesExhausted:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UpstreamRequests:  make(map[RequestKey]uint64, len(m.upstreamRequests)),
		UpstreamDurations: make(map[string]DurationStat, len(m.upstreamDurations)),
		UpstreamRetries:   make(map[string]uint64, len(m.upstreamRetries)),
		RetriesExhausted:  make(map[string]uint64, len(m.retriesExhausted)),
		EmployeesCreated:  atomic.LoadUint64(&m.employeesCreated),
		EmployeesDeleted:  atomic.LoadUint64(&m.employeesDeleted),
	}
	for k, v := range m.upstreamRequests {
		snap.UpstreamRequests[k] = v
	}
	for k, v := range m.upstreamDurations {
		snap.UpstreamDurations[k] = v
	}
	for k, v := range m.upstreamRetries {
		snap.UpstreamRetries[k] = v
	}
	for k, v := range m.retriesExhausted {
		snap.RetriesExhausted[k] = v
	}
	return snap
}

// IncUpstreamRequest increments the request counter for op and outcome.
func (m *InMemoryRecorder) IncUpstreamRequest(op, outcome string) {
	m.mu.Lock()
	m.upstreamRequests[RequestKey{Op: op, Outcome: outcome}]++
	m.mu.Unlock()
}

// ObserveUpstreamDuration records an upstream call duration.
func (m *InMemoryRecorder) ObserveUpstreamDuration(op string, duration time.Duration) {
	m.mu.Lock()
	stat := m.upstreamDurations[op]
	stat.Count++
	stat.TotalNs += duration.Nanoseconds()
	m.upstreamDurations[op] = stat
	m.mu.Unlock()
}

// IncUpstreamRetry increments the retry counter for op.
func (m *InMemoryRecorder) IncUpstreamRetry(op string) {
	m.mu.Lock()
	m.upstreamRetries[op]++
	m.mu.Unlock()
}

// IncRetryExhausted increments the exhausted-retries counter for op.
func (m *InMemoryRecorder) IncRetryExhausted(op string) {
	m.mu.Lock()
	m.retriesExhausted[op]++
	m.mu.Unlock()
}

// IncEmployeeCreated increments employee created counter.
func (m *InMemoryRecorder) IncEmployeeCreated() {
	atomic.AddUint64(&m.employeesCreated, 1)
}

// IncEmployeeDeleted increments employee deleted counter.
func (m *InMemoryRecorder) IncEmployeeDeleted() {
	atomic.AddUint64(&m.employeesDeleted, 1)
}
