package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/empproxy/empproxy/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	for _, key := range snap.SortedRequestKeys() {
		writeMetric(w, "empproxy_upstream_requests_total{op=%q,outcome=%q} %d\n",
			key.Op, key.Outcome, snap.UpstreamRequests[key])
	}

	for _, op := range sortedOps(snap.UpstreamDurations) {
		stat := snap.UpstreamDurations[op]
		writeMetric(w, "empproxy_upstream_duration_seconds_count{op=%q} %d\n", op, stat.Count)
		writeMetric(w, "empproxy_upstream_duration_seconds_sum{op=%q} %.6f\n", op, float64(stat.TotalNs)/1e9)
	}

	for _, op := range sortedOps(snap.UpstreamRetries) {
		writeMetric(w, "empproxy_upstream_retries_total{op=%q} %d\n", op, snap.UpstreamRetries[op])
	}
	for _, op := range sortedOps(snap.RetriesExhausted) {
		writeMetric(w, "empproxy_upstream_retries_exhausted_total{op=%q} %d\n", op, snap.RetriesExhausted[op])
	}

	writeMetric(w, "empproxy_employees_created_total %d\n", snap.EmployeesCreated)
	writeMetric(w, "empproxy_employees_deleted_total %d\n", snap.EmployeesDeleted)
}

func sortedOps[V any](m map[string]V) []string {
	ops := make([]string, 0, len(m))
	for op := range m {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
