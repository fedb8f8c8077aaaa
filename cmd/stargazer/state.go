package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdwils/stargazer/pkg/feed"
	"github.com/kdwils/stargazer/pkg/health"
	"github.com/kdwils/stargazer/pkg/stats"
	"github.com/kdwils/stargazer/pkg/types"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Fetch a single snapshot and print a summary",
	Long: `Fetch one snapshot from GET /state and print cluster totals, namespace
statistics, groups, and service health. No stream is opened; this is the
fallback path for environments without websocket support.

Examples:
  stargazer state --server http://localhost:8080`,
	RunE: runState,
}

func init() {
	stateCmd.Flags().String("server", "", "Base URL of the constellation feed")
	stateCmd.Flags().String("config", "", "Path to YAML config file")
	stateCmd.Flags().Duration("timeout", 15*time.Second, "Fetch timeout")
}

func runState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogging(cfg)

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	m, err := feed.New(cfg.Server)
	if err != nil {
		return err
	}

	snapshot, err := m.FetchState(ctx)
	if err != nil {
		return err
	}

	printSummary(snapshot)
	return nil
}

func printSummary(snapshot types.Snapshot) {
	totals := stats.CalculateResourceCollectionStats(snapshot)
	groups := stats.ExtractGroups(snapshot)

	fmt.Printf("Cluster: %d namespaces, %d resources\n", len(snapshot), totals.TotalResources)
	fmt.Printf("  Services: %d  Pods: %d (%d%% healthy)  Ingresses: %d  HTTPRoutes: %d\n",
		totals.TotalServices,
		totals.TotalPods,
		stats.CalculateHealthPercentage(totals.HealthyPods, totals.TotalPods),
		totals.Ingresses,
		totals.HTTPRoutes,
	)
	fmt.Println()

	fmt.Println("Namespaces:")
	for _, ns := range snapshot {
		nsStats := stats.CalculateNamespaceStats(ns)
		fmt.Printf("  %-30s %3d resources  %3d services  %3d pods\n",
			ns.Name, nsStats.TotalResources, nsStats.TotalServices, nsStats.TotalPods)
	}

	if len(groups) > 0 {
		fmt.Println()
		fmt.Println("Groups:")
		for _, group := range groups {
			groupStats := stats.CalculateResourceCollectionStats(group.Resources)
			fmt.Printf("  %-20s %d resources across %d namespaces\n",
				group.Name, len(group.Resources), len(groupStats.Namespaces))
		}
	}

	services := collectServiceHealth(snapshot)
	if len(services) > 0 {
		fmt.Println()
		fmt.Println("Service health:")
		for _, svc := range services {
			printServiceHealth(svc)
		}
	}
}

func collectServiceHealth(snapshot types.Snapshot) []*types.ServiceHealthInfo {
	var infos []*types.ServiceHealthInfo

	stack := make([]types.ResourceNode, len(snapshot))
	copy(stack, snapshot)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Kind == types.KindService && node.HealthInfo != nil {
			infos = append(infos, node.HealthInfo)
		}
		stack = append(stack, node.Relatives...)
	}
	return infos
}

func printServiceHealth(info *types.ServiceHealthInfo) {
	current, ok := health.Current(info.History)
	if !ok {
		fmt.Printf("  %s/%s: no data\n", info.Namespace, info.ServiceName)
		return
	}

	fmt.Printf("  %s/%s: %s  24h %.0f%%  30d %.0f%%  latency %dms (avg %dms)\n",
		info.Namespace,
		info.ServiceName,
		current.Status,
		health.RecentUptime(info.History),
		health.LongUptime(info.History),
		health.LatencyMillis(current.Latency),
		health.LatencyMillis(health.AverageLatency(info.History)),
	)
}
