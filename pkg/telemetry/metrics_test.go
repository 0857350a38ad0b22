package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.StoreWrite()
	m.Notified(3)
	m.ComputationError("panic")
	m.RenderPass("mount", time.Millisecond)
	m.Mutation("Append")
	m.ViewerConnected()
	m.ViewerDisconnected()
	m.FrameSent()
	m.Request("list", "200", time.Millisecond)
	m.HTTPRequest("GET /", "200", time.Millisecond)
	m.CacheLookup("hit")
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))

	m.StoreWrite()
	m.StoreWrite()
	m.Notified(3)
	m.ComputationError("panic")
	m.RenderPass("patch", 2*time.Millisecond)
	m.ViewerConnected()
	m.HTTPRequest("GET /ws", "101", time.Millisecond)

	if got := testutil.ToFloat64(m.storeWrites); got != 2 {
		t.Errorf("store writes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.notifications); got != 3 {
		t.Errorf("notifications = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.computationErrors.WithLabelValues("panic")); got != 1 {
		t.Errorf("computation errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.renderPasses.WithLabelValues("patch")); got != 1 {
		t.Errorf("render passes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.liveViewers); got != 1 {
		t.Errorf("viewers = %v, want 1", got)
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /ws", "101")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_store_writes_total" {
			found = true
		}
	}
	if !found {
		t.Error("test_store_writes_total not registered")
	}
}
