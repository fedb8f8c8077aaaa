package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Connection metrics
	ConnectionState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stargazer_connection_state",
			Help: "Current connection state (1 for the active state, 0 otherwise)",
		},
		[]string{"state"},
	)

	SnapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stargazer_snapshots_total",
			Help: "Total number of snapshots received and published",
		},
	)

	ParseErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stargazer_parse_errors_total",
			Help: "Total number of inbound messages that failed to parse",
		},
	)

	ReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stargazer_reconnects_total",
			Help: "Total number of reconnect attempts after a lost connection",
		},
	)

	ProbeFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stargazer_probe_failures_total",
			Help: "Total number of failed readiness probes",
		},
	)

	// Snapshot content metrics
	SnapshotResources = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stargazer_snapshot_resources",
			Help: "Resource count of the most recent snapshot",
		},
	)

	SnapshotNamespaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stargazer_snapshot_namespaces",
			Help: "Namespace count of the most recent snapshot",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ConnectionState)
	prometheus.MustRegister(SnapshotsTotal)
	prometheus.MustRegister(ParseErrorsTotal)
	prometheus.MustRegister(ReconnectsTotal)
	prometheus.MustRegister(ProbeFailuresTotal)
	prometheus.MustRegister(SnapshotResources)
	prometheus.MustRegister(SnapshotNamespaces)
}

// SetConnectionState marks state as active and clears the others
func SetConnectionState(state string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == state {
			v = 1.0
		}
		ConnectionState.WithLabelValues(s).Set(v)
	}
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
