package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPricingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPricingMetrics(reg)

	m.ObserveBatch(500, 12)
	m.ObserveBatch(20, 0)
	m.IncSkipped("CURRENCY_MISMATCH")
	m.IncSkipped("")

	if got := testutil.ToFloat64(m.batches); got != 2 {
		t.Fatalf("expected 2 batches, got %f", got)
	}
	if got := testutil.ToFloat64(m.products); got != 520 {
		t.Fatalf("expected 520 products, got %f", got)
	}
	if got := testutil.ToFloat64(m.updated); got != 12 {
		t.Fatalf("expected 12 updated listings, got %f", got)
	}
	if got := testutil.ToFloat64(m.skipped.WithLabelValues("CURRENCY_MISMATCH")); got != 1 {
		t.Fatalf("expected 1 currency skip, got %f", got)
	}
	if got := testutil.ToFloat64(m.skipped.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected 1 unknown skip, got %f", got)
	}
}

func TestPricingMetricsNilSafe(t *testing.T) {
	var m *PricingMetrics
	m.ObserveBatch(1, 1)
	m.IncSkipped("x")

	unregistered := NewPricingMetrics(nil)
	unregistered.ObserveBatch(1, 1)
	unregistered.IncSkipped("x")
}
