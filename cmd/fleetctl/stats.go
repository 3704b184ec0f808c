package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyops-io/fleetgraph/engine/graph"
)

func newStatsCmd(loadCfg func() (Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print node, relationship, and system-type counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			conn, err := graph.Connect(ctx, cfg.graphConfig())
			if err != nil {
				return err
			}
			defer conn.Close(ctx)
			store := graph.New(conn)

			nodes, err := store.NodeCounts(ctx)
			if err != nil {
				return err
			}
			rels, err := store.RelationshipCounts(ctx)
			if err != nil {
				return err
			}
			systems, err := store.SystemComponentCounts(ctx)
			if err != nil {
				return err
			}

			out := struct {
				Nodes         map[string]int64        `json:"nodes"`
				Relationships map[string]int64        `json:"relationships"`
				SystemTypes   []graph.SystemTypeCount `json:"system_types"`
			}{nodes, rels, systems}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
