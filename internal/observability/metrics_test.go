package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/book", "POST", 201, 10*time.Millisecond)
	m.RecordRequest("/book", "POST", 201, 30*time.Millisecond)
	m.RecordError("/pay", "POST", "NOT_FOUND")

	snap := m.Snapshot()
	if got := snap.Requests["/book|POST|201"]; got != 2 {
		t.Fatalf("requests = %d, want 2", got)
	}
	if got := snap.AvgLatencyMS["/book|POST|201"]; got != 20 {
		t.Fatalf("avg latency = %v, want 20", got)
	}
	if got := snap.Errors["/pay|POST|NOT_FOUND"]; got != 1 {
		t.Fatalf("errors = %d, want 1", got)
	}

	// snapshot must be a copy
	snap.Requests["/book|POST|201"] = 99
	if m.Snapshot().Requests["/book|POST|201"] != 2 {
		t.Fatal("snapshot aliases internal map")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	if len(m.Snapshot().Requests) != 0 {
		t.Fatal("nil metrics should produce empty snapshot")
	}
}
