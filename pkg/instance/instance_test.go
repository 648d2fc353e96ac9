package instance

import "testing"

func TestIDPrefersEnv(t *testing.T) {
	t.Setenv("PRICING_WORKER_ID", " worker-7 ")
	if got := ID(); got != "worker-7" {
		t.Fatalf("expected worker-7 got %q", got)
	}
}

func TestIDFallsBack(t *testing.T) {
	t.Setenv("PRICING_WORKER_ID", "")
	if got := ID(); got == "" {
		t.Fatal("expected a non-empty fallback id")
	}
}
