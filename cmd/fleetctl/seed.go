package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyops-io/fleetgraph/engine/graph"
)

// Fixture is the JSON shape consumed by `fleetctl seed`.
type Fixture struct {
	Aircraft          []graph.Aircraft         `json:"aircraft"`
	Airports          []graph.Airport          `json:"airports"`
	Flights           []graph.Flight           `json:"flights"`
	Systems           []graph.System           `json:"systems"`
	Components        []graph.Component        `json:"components"`
	Sensors           []graph.Sensor           `json:"sensors"`
	Readings          []graph.Reading          `json:"readings"`
	MaintenanceEvents []graph.MaintenanceEvent `json:"maintenance_events"`
	Delays            []graph.Delay            `json:"delays"`
}

func newSeedCmd(loadCfg func() (Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.json>",
		Short: "Load a JSON fixture into the graph, including relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}
			var fx Fixture
			if err := json.Unmarshal(data, &fx); err != nil {
				return fmt.Errorf("parse fixture: %w", err)
			}

			conn, err := graph.Connect(ctx, cfg.graphConfig())
			if err != nil {
				return err
			}
			defer conn.Close(ctx)
			store := graph.New(conn)

			if err := seed(ctx, store, fx); err != nil {
				return err
			}
			slog.Info("seed complete",
				"aircraft", len(fx.Aircraft),
				"airports", len(fx.Airports),
				"flights", len(fx.Flights),
				"systems", len(fx.Systems),
				"components", len(fx.Components),
				"sensors", len(fx.Sensors),
				"readings", len(fx.Readings),
				"events", len(fx.MaintenanceEvents),
				"delays", len(fx.Delays),
			)
			return nil
		},
	}
}

// seed upserts every entity, then wires the ownership relationships from
// the foreign-key properties. Upserts make re-seeding the same fixture
// idempotent.
func seed(ctx context.Context, store *graph.GraphStore, fx Fixture) error {
	for _, a := range fx.Aircraft {
		if _, err := store.CreateAircraft(ctx, a); err != nil {
			return err
		}
	}
	for _, a := range fx.Airports {
		if _, err := store.CreateAirport(ctx, a); err != nil {
			return err
		}
	}
	for _, f := range fx.Flights {
		if _, err := store.CreateFlight(ctx, f); err != nil {
			return err
		}
	}
	for _, s := range fx.Systems {
		if _, err := store.CreateSystem(ctx, s); err != nil {
			return err
		}
	}
	for _, c := range fx.Components {
		if _, err := store.CreateComponent(ctx, c); err != nil {
			return err
		}
	}
	for _, s := range fx.Sensors {
		if _, err := store.CreateSensor(ctx, s); err != nil {
			return err
		}
	}
	for _, r := range fx.Readings {
		if _, err := store.CreateReading(ctx, r); err != nil {
			return err
		}
	}
	for _, m := range fx.MaintenanceEvents {
		if _, err := store.CreateMaintenanceEvent(ctx, m); err != nil {
			return err
		}
	}
	for _, d := range fx.Delays {
		if _, err := store.CreateDelay(ctx, d); err != nil {
			return err
		}
	}

	for _, s := range fx.Systems {
		if err := store.LinkAircraftSystem(ctx, s.AircraftID, s.SystemID); err != nil {
			return err
		}
	}
	for _, c := range fx.Components {
		if err := store.LinkSystemComponent(ctx, c.SystemID, c.ComponentID); err != nil {
			return err
		}
	}
	for _, s := range fx.Sensors {
		if err := store.LinkSystemSensor(ctx, s.SystemID, s.SensorID); err != nil {
			return err
		}
	}
	for _, r := range fx.Readings {
		if err := store.LinkSensorReading(ctx, r.SensorID, r.ReadingID); err != nil {
			return err
		}
	}
	for _, m := range fx.MaintenanceEvents {
		if err := store.LinkMaintenanceEvent(ctx, m); err != nil {
			return err
		}
	}
	for _, f := range fx.Flights {
		if err := store.LinkAircraftFlight(ctx, f.AircraftID, f.FlightID); err != nil {
			return err
		}
	}
	for _, d := range fx.Delays {
		if err := store.LinkFlightDelay(ctx, d.FlightID, d.DelayID); err != nil {
			return err
		}
	}
	return nil
}
