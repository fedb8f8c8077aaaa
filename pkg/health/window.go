package health

import (
	"math"
	"time"

	"github.com/kdwils/stargazer/pkg/types"
)

// Window sizing policy. History arrives at a 30-minute cadence for recent
// data and is interpreted hourly for the long view.
const (
	// RecentWindowSize covers roughly the trailing 24 hours
	RecentWindowSize = 48

	// LongWindowSize covers roughly the trailing 30 days
	LongWindowSize = 720

	// DisplaySlots is the number of entries shown on a health strip
	DisplaySlots = 15
)

// Window returns the trailing n entries of history. History is
// chronological, oldest first; the slice is a view, never a copy, and the
// input is never mutated.
func Window(history []types.HealthCheckEntry, n int) []types.HealthCheckEntry {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// UptimePercent is the share of healthy entries in the trailing n-entry
// window, as a percentage. An empty window reports 0.
func UptimePercent(history []types.HealthCheckEntry, n int) float64 {
	window := Window(history, n)
	if len(window) == 0 {
		return 0
	}

	healthy := 0
	for _, entry := range window {
		if entry.Status == types.HealthStatusHealthy {
			healthy++
		}
	}
	return float64(healthy) / float64(len(window)) * 100
}

// RecentUptime is the uptime percentage over the recent window
func RecentUptime(history []types.HealthCheckEntry) float64 {
	return UptimePercent(history, RecentWindowSize)
}

// LongUptime is the uptime percentage over the long window
func LongUptime(history []types.HealthCheckEntry) float64 {
	return UptimePercent(history, LongWindowSize)
}

// AverageLatency is the mean probe latency over the recent window, 0 when
// the window is empty.
func AverageLatency(history []types.HealthCheckEntry) time.Duration {
	window := Window(history, RecentWindowSize)
	if len(window) == 0 {
		return 0
	}

	var total time.Duration
	for _, entry := range window {
		total += entry.Latency
	}
	return total / time.Duration(len(window))
}

// Current returns the most recent entry. ok is false when history is
// empty, the explicit "no data" state; callers must not substitute zeros.
func Current(history []types.HealthCheckEntry) (entry types.HealthCheckEntry, ok bool) {
	if len(history) == 0 {
		return types.HealthCheckEntry{}, false
	}
	return history[len(history)-1], true
}

// DisplayWindow returns the trailing entries shown on a health strip
func DisplayWindow(history []types.HealthCheckEntry) []types.HealthCheckEntry {
	return Window(history, DisplaySlots)
}

// LatencyMillis converts a raw nanosecond latency to rounded milliseconds
// for presentation.
func LatencyMillis(d time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}
