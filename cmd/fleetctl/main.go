// Command fleetctl is the operator CLI for the fleet graph: statistics,
// fixture seeding, and fault indexing.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Fleet graph operations CLI",
		Long:          "Command-line interface for the fleet aviation graph: statistics, fixture seeding, and fault similarity indexing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	loadCfg := func() (Config, error) { return LoadConfig(configPath) }

	root.AddCommand(newStatsCmd(loadCfg))
	root.AddCommand(newSeedCmd(loadCfg))
	root.AddCommand(newIndexFaultsCmd(loadCfg))
	return root
}
