package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	m := NewInMemory()

	m.IncUpstreamRequest("fetch_all", OutcomeSuccess)
	m.IncUpstreamRequest("fetch_all", OutcomeSuccess)
	m.IncUpstreamRequest("fetch_all", OutcomeRateLimited)
	m.IncUpstreamRetry("fetch_all")
	m.IncRetryExhausted("create")
	m.ObserveUpstreamDuration("fetch_all", 10*time.Millisecond)
	m.ObserveUpstreamDuration("fetch_all", 20*time.Millisecond)
	m.IncEmployeeCreated()
	m.IncEmployeeDeleted()
	m.IncEmployeeDeleted()

	snap := m.Snapshot()

	if got := snap.UpstreamRequests[RequestKey{"fetch_all", OutcomeSuccess}]; got != 2 {
		t.Errorf("expected 2 successful fetch_all, got %d", got)
	}
	if got := snap.UpstreamRequests[RequestKey{"fetch_all", OutcomeRateLimited}]; got != 1 {
		t.Errorf("expected 1 rate limited fetch_all, got %d", got)
	}
	if snap.UpstreamRetries["fetch_all"] != 1 {
		t.Errorf("expected 1 retry, got %d", snap.UpstreamRetries["fetch_all"])
	}
	if snap.RetriesExhausted["create"] != 1 {
		t.Errorf("expected 1 exhausted create, got %d", snap.RetriesExhausted["create"])
	}
	stat := snap.UpstreamDurations["fetch_all"]
	if stat.Count != 2 || stat.TotalNs != (30*time.Millisecond).Nanoseconds() {
		t.Errorf("unexpected duration stat: %+v", stat)
	}
	if snap.EmployeesCreated != 1 || snap.EmployeesDeleted != 2 {
		t.Errorf("unexpected mutation counters: created=%d deleted=%d", snap.EmployeesCreated, snap.EmployeesDeleted)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	m := NewInMemory()
	m.IncUpstreamRetry("delete")

	snap := m.Snapshot()
	m.IncUpstreamRetry("delete")

	if snap.UpstreamRetries["delete"] != 1 {
		t.Errorf("snapshot should not observe later writes, got %d", snap.UpstreamRetries["delete"])
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncUpstreamRequest("fetch_by_id", OutcomeNotFound)
		}()
	}
	wg.Wait()

	if got := m.Snapshot().UpstreamRequests[RequestKey{"fetch_by_id", OutcomeNotFound}]; got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
}

func TestSnapshot_SortedRequestKeys(t *testing.T) {
	m := NewInMemory()
	m.IncUpstreamRequest("fetch_by_id", OutcomeSuccess)
	m.IncUpstreamRequest("create", OutcomeSuccess)
	m.IncUpstreamRequest("create", OutcomeError)

	keys := m.Snapshot().SortedRequestKeys()
	want := []RequestKey{{"create", OutcomeError}, {"create", OutcomeSuccess}, {"fetch_by_id", OutcomeSuccess}}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %+v, want %+v", i, keys[i], want[i])
		}
	}
}
