package health

import (
	"testing"
	"time"

	"github.com/kdwils/stargazer/pkg/types"
)

func entries(statuses ...types.HealthStatus) []types.HealthCheckEntry {
	history := make([]types.HealthCheckEntry, len(statuses))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range statuses {
		history[i] = types.HealthCheckEntry{
			Timestamp: base.Add(time.Duration(i) * 30 * time.Minute),
			Status:    s,
			Latency:   time.Duration(i+1) * time.Millisecond,
		}
	}
	return history
}

func TestWindow_ShorterThanN(t *testing.T) {
	history := entries(types.HealthStatusHealthy, types.HealthStatusUnhealthy)

	window := Window(history, 48)
	if len(window) != 2 {
		t.Fatalf("expected full history, got %d entries", len(window))
	}
}

func TestWindow_TrailingSlice(t *testing.T) {
	statuses := make([]types.HealthStatus, 50)
	for i := range statuses {
		statuses[i] = types.HealthStatusHealthy
	}
	history := entries(statuses...)

	window := Window(history, 48)
	if len(window) != 48 {
		t.Fatalf("expected 48 entries, got %d", len(window))
	}
	if !window[0].Timestamp.Equal(history[2].Timestamp) {
		t.Error("window should start at the third entry")
	}
}

func TestRecentUptime_HalfHealthy(t *testing.T) {
	// 50 entries; last 48 alternate healthy/unhealthy -> 24 healthy -> 50%
	statuses := make([]types.HealthStatus, 50)
	statuses[0] = types.HealthStatusHealthy
	statuses[1] = types.HealthStatusHealthy
	for i := 2; i < 50; i++ {
		if i%2 == 0 {
			statuses[i] = types.HealthStatusHealthy
		} else {
			statuses[i] = types.HealthStatusUnhealthy
		}
	}
	history := entries(statuses...)

	uptime := RecentUptime(history)
	if uptime != 50 {
		t.Errorf("expected 50%% uptime, got %v", uptime)
	}
}

func TestRecentUptime_Empty(t *testing.T) {
	if got := RecentUptime(nil); got != 0 {
		t.Errorf("expected 0 for empty history, got %v", got)
	}
}

func TestLongUptime_IndependentOfRecent(t *testing.T) {
	// 100 healthy then 48 unhealthy: recent window is all unhealthy,
	// long window still sees the healthy run
	statuses := make([]types.HealthStatus, 148)
	for i := 0; i < 100; i++ {
		statuses[i] = types.HealthStatusHealthy
	}
	for i := 100; i < 148; i++ {
		statuses[i] = types.HealthStatusUnhealthy
	}
	history := entries(statuses...)

	if got := RecentUptime(history); got != 0 {
		t.Errorf("expected recent uptime 0, got %v", got)
	}
	long := LongUptime(history)
	if long <= 0 || long >= 100 {
		t.Errorf("expected long uptime strictly between 0 and 100, got %v", long)
	}
}

func TestAverageLatency(t *testing.T) {
	history := []types.HealthCheckEntry{
		{Status: types.HealthStatusHealthy, Latency: 10 * time.Millisecond},
		{Status: types.HealthStatusHealthy, Latency: 20 * time.Millisecond},
		{Status: types.HealthStatusHealthy, Latency: 30 * time.Millisecond},
	}

	if got := AverageLatency(history); got != 20*time.Millisecond {
		t.Errorf("expected 20ms average, got %v", got)
	}
}

func TestAverageLatency_Empty(t *testing.T) {
	if got := AverageLatency(nil); got != 0 {
		t.Errorf("expected 0 for empty history, got %v", got)
	}
}

func TestCurrent(t *testing.T) {
	history := entries(types.HealthStatusHealthy, types.HealthStatusUnhealthy)

	current, ok := Current(history)
	if !ok {
		t.Fatal("expected current entry")
	}
	if current.Status != types.HealthStatusUnhealthy {
		t.Errorf("expected most recent entry, got status %s", current.Status)
	}
}

func TestCurrent_NoData(t *testing.T) {
	if _, ok := Current(nil); ok {
		t.Error("empty history must report no data")
	}
}

func TestDisplayWindow(t *testing.T) {
	statuses := make([]types.HealthStatus, 40)
	for i := range statuses {
		statuses[i] = types.HealthStatusHealthy
	}
	history := entries(statuses...)

	if got := DisplayWindow(history); len(got) != DisplaySlots {
		t.Errorf("expected %d entries, got %d", DisplaySlots, len(got))
	}
}

func TestLatencyMillis(t *testing.T) {
	tests := []struct {
		latency  time.Duration
		expected int64
	}{
		{1500 * time.Microsecond, 2},
		{1400 * time.Microsecond, 1},
		{0, 0},
		{time.Second, 1000},
	}

	for _, tt := range tests {
		if got := LatencyMillis(tt.latency); got != tt.expected {
			t.Errorf("LatencyMillis(%v) = %d, expected %d", tt.latency, got, tt.expected)
		}
	}
}
