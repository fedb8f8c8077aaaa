package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kdwils/stargazer/pkg/config"
	"github.com/kdwils/stargazer/pkg/events"
	"github.com/kdwils/stargazer/pkg/feed"
	"github.com/kdwils/stargazer/pkg/health"
	"github.com/kdwils/stargazer/pkg/log"
	"github.com/kdwils/stargazer/pkg/metrics"
	"github.com/kdwils/stargazer/pkg/stats"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live snapshot stream",
	Long: `Connect to the constellation feed and follow the live snapshot stream,
logging connection status and a per-snapshot aggregate summary.

The connection is maintained automatically: the feed is probed for
readiness before each attempt, and lost connections are retried with
fixed delays.

Examples:
  # Watch a local feed
  stargazer watch --server http://localhost:8080

  # Watch with a config file and Prometheus metrics
  stargazer watch --config stargazer.yaml --metrics-addr :9100`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("server", "", "Base URL of the constellation feed")
	watchCmd.Flags().String("config", "", "Path to YAML config file")
	watchCmd.Flags().String("metrics-addr", "", "Address to serve Prometheus metrics on (disabled when empty)")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	server, _ := cmd.Flags().GetString("server")

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if server != "" {
		cfg.Server = server
	}
	return cfg, cfg.Validate()
}

func initLogging(cfg config.Config) {
	log.Init(log.Config{
		Level:      log.Level(cfg.Log.Level),
		JSONOutput: cfg.Log.Format == "json",
		Output:     os.Stderr,
	})
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogging(cfg)

	if metricsAddr, _ := cmd.Flags().GetString("metrics-addr"); metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Errorf("metrics server failed", err)
			}
		}()
	}

	m, err := feed.New(cfg.Server)
	if err != nil {
		return err
	}

	sub := m.Subscribe()
	m.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger := log.WithComponent("watch")
	logger.Info().Str("server", cfg.Server).Msg("watching feed")

	for {
		select {
		case <-sigCh:
			logger.Info().Msg("shutting down")
			m.Stop()
			return nil
		case update := <-sub:
			switch update.Type {
			case events.UpdateStatus:
				event := logger.Info()
				if update.Err != nil {
					event = logger.Warn().Err(update.Err)
				}
				event.Str("state", update.State).Msg("connection status")
			case events.UpdateSnapshot:
				logSnapshot(update)
			}
		}
	}
}

func logSnapshot(update events.Update) {
	logger := log.WithComponent("watch")

	snapshot := update.Snapshot
	totals := stats.CalculateResourceCollectionStats(snapshot)
	groups := stats.ExtractGroups(snapshot)

	logger.Info().
		Int("namespaces", len(snapshot)).
		Int("resources", totals.TotalResources).
		Int("services", totals.TotalServices).
		Int("pods", totals.TotalPods).
		Int("healthy_pods", totals.HealthyPods).
		Int("groups", len(groups)).
		Bool("external_routes", totals.HasExternalRoutes).
		Msg("snapshot")

	for _, ns := range snapshot {
		nsStats := stats.CalculateNamespaceStats(ns)
		nsLog := log.WithNamespace(ns.Name)
		nsLog.Debug().
			Int("resources", nsStats.TotalResources).
			Int("services", nsStats.TotalServices).
			Int("pods", nsStats.TotalPods).
			Int("health_pct", stats.CalculateHealthPercentage(nsStats.HealthyPods, nsStats.TotalPods)).
			Msg("namespace")
	}

	for _, info := range collectServiceHealth(snapshot) {
		svcLog := log.WithService(info.ServiceName)
		current, ok := health.Current(info.History)
		if !ok {
			svcLog.Debug().Str("namespace", info.Namespace).Msg("no health data")
			continue
		}
		svcLog.Debug().
			Str("namespace", info.Namespace).
			Str("status", string(current.Status)).
			Float64("uptime_24h", health.RecentUptime(info.History)).
			Int64("latency_ms", health.LatencyMillis(current.Latency)).
			Msg("service health")
	}
}
