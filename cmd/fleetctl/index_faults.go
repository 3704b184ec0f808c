package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/skyops-io/fleetgraph/engine/graph"
	"github.com/skyops-io/fleetgraph/engine/semantic"
	"github.com/skyops-io/fleetgraph/pkg/embed"
)

func newIndexFaultsCmd(loadCfg func() (Config, error)) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "index-faults",
		Short: "Embed maintenance fault text and upsert it into the vector store",
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

			vs, err := semantic.New(cfg.Qdrant.Addr, cfg.Qdrant.Collection)
			if err != nil {
				return err
			}
			defer vs.Close()
			if err := vs.EnsureCollection(ctx, cfg.Qdrant.Dims); err != nil {
				return err
			}

			embedder := embed.NewClient(cfg.Ollama.URL, cfg.Ollama.Model)

			events, err := store.ListMaintenanceEvents(ctx, limit)
			if err != nil {
				return err
			}

			records := make([]semantic.FaultRecord, 0, len(events))
			for _, m := range events {
				if m.Fault == "" {
					continue
				}
				vector, err := embedder.Embed(ctx, m.Fault)
				if err != nil {
					slog.Error("embed failed", "event_id", m.EventID, "err", err)
					continue
				}
				records = append(records, semantic.FaultRecord{
					EventID:    m.EventID,
					AircraftID: m.AircraftID,
					Severity:   m.Severity,
					Fault:      m.Fault,
					Vector:     vector,
				})
			}

			if err := vs.IndexFaults(ctx, records); err != nil {
				return err
			}
			slog.Info("fault index updated", "events", len(events), "indexed", len(records))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10000, "max events to scan")
	return cmd
}
