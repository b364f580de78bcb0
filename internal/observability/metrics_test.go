package observability

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/posts", "GET", 200, time.Millisecond)
	m.RecordRequest("/posts", "GET", 200, time.Millisecond)
	m.RecordError("/post", "POST", "VALIDATION_FAILED")

	requests, errors := m.Snapshot()
	if requests["/posts|GET|200"] != 2 {
		t.Fatalf("unexpected request count: %v", requests)
	}
	if errors["/post|POST|VALIDATION_FAILED"] != 1 {
		t.Fatalf("unexpected error count: %v", errors)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/posts", "GET", 200, 0)
	m.RecordError("/posts", "GET", "X")
	requests, errors := m.Snapshot()
	if len(requests) != 0 || len(errors) != 0 {
		t.Fatalf("expected empty snapshots from nil metrics")
	}
}
