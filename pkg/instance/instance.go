package instance

import (
	"os"
	"strings"
)

const defaultID = "pricing-worker-0"

// ID identifies this process in logs and lock ownership. PRICING_WORKER_ID wins,
// then the hostname.
func ID() string {
	if id := strings.TrimSpace(os.Getenv("PRICING_WORKER_ID")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return defaultID
}
