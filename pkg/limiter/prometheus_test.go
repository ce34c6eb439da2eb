package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(registry, "crptgate")

	rec.Add("gate.admitted", 1, nil)
	rec.Add("gate.admitted", 2, nil)
	rec.Observe("gate.wait_seconds", 0.25, nil)

	if got := testutil.ToFloat64(rec.counter("gate.admitted")); got != 3 {
		t.Errorf("expected counter 3, got %f", got)
	}
	if samples := testutil.CollectAndCount(rec.histogram("gate.wait_seconds")); samples == 0 {
		t.Error("expected the histogram to have been collected")
	}
}

// Two recorders sharing a registry must converge on the same collector
// instead of failing the duplicate registration.
func TestPrometheusRecorder_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewPrometheusRecorder(registry, "crptgate")
	second := NewPrometheusRecorder(registry, "crptgate")

	first.Add("gate.admitted", 1, nil)
	second.Add("gate.admitted", 1, nil)

	if got := testutil.ToFloat64(second.counter("gate.admitted")); got != 2 {
		t.Errorf("expected the shared counter to read 2, got %f", got)
	}
}

func TestWindowLimiter_PrometheusRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(registry, "crptgate")

	l, err := NewWindowLimiter(time.Minute, 1, WithRecorder(rec))
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if l.TryAcquire() {
		t.Fatal("probe should be denied while the window is full")
	}

	if got := testutil.ToFloat64(rec.counter("gate.admitted")); got != 1 {
		t.Errorf("expected 1 admission counted, got %f", got)
	}
	if got := testutil.ToFloat64(rec.counter("gate.denied")); got != 1 {
		t.Errorf("expected 1 denial counted, got %f", got)
	}
}

func TestSanitizeMetricName(t *testing.T) {
	if got := sanitizeMetricName("gate.wait_seconds"); got != "gate_wait_seconds" {
		t.Errorf("unexpected sanitized name %q", got)
	}
	if got := sanitizeMetricName("gate-admitted"); got != "gate_admitted" {
		t.Errorf("unexpected sanitized name %q", got)
	}
}
