package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stargazer",
	Short: "Stargazer - live view of a cluster's resource relationships",
	Long: `Stargazer consumes a constellation feed: a readiness-gated stream of
whole-cluster snapshots describing namespaces, ingress and route objects,
services, and pods, together with per-service health history.

It maintains the live connection, recovers from drops automatically, and
derives namespace statistics, cross-namespace groups, and cluster totals
from every snapshot.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Stargazer version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(stateCmd)
}
