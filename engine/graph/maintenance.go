package graph

import (
	"context"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

func newMaintenanceEventRepo(opener repo.Opener) *repo.Neo4jRepo[MaintenanceEvent] {
	return repo.NewNeo4jRepo(
		opener,
		"MaintenanceEvent",
		"event_id",
		maintenanceEventToMap,
		maintenanceEventFromProps,
		repo.WithQueryable[MaintenanceEvent]("aircraft_id", "severity", "component_id"),
		repo.WithSortDesc[MaintenanceEvent]("aircraft_id", "reported_at"),
		repo.WithSortDesc[MaintenanceEvent]("severity", "reported_at"),
	)
}

func maintenanceEventToMap(m MaintenanceEvent) map[string]any {
	return map[string]any{
		"event_id":          m.EventID,
		"aircraft_id":       m.AircraftID,
		"system_id":         m.SystemID,
		"component_id":      m.ComponentID,
		"fault":             m.Fault,
		"severity":          m.Severity,
		"reported_at":       m.ReportedAt,
		"corrective_action": m.CorrectiveAction,
	}
}

func maintenanceEventFromProps(props map[string]any) (MaintenanceEvent, error) {
	r := newPropReader(props)
	m := MaintenanceEvent{
		EventID:          r.str("event_id"),
		AircraftID:       r.str("aircraft_id"),
		SystemID:         r.str("system_id"),
		ComponentID:      r.str("component_id"),
		Fault:            r.str("fault"),
		Severity:         r.str("severity"),
		ReportedAt:       r.str("reported_at"),
		CorrectiveAction: r.str("corrective_action"),
	}
	return m, r.Err()
}

// CreateMaintenanceEvent upserts a maintenance event by event_id.
func (g *GraphStore) CreateMaintenanceEvent(ctx context.Context, m MaintenanceEvent) (MaintenanceEvent, error) {
	return g.events.Create(ctx, m)
}

// FindMaintenanceEventByID returns nil when no event matches.
func (g *GraphStore) FindMaintenanceEventByID(ctx context.Context, id string) (*MaintenanceEvent, error) {
	return g.events.FindByID(ctx, id)
}

// FindMaintenanceEventsByAircraft returns an aircraft's maintenance
// history, most recently reported first.
func (g *GraphStore) FindMaintenanceEventsByAircraft(ctx context.Context, aircraftID string, limit int) ([]MaintenanceEvent, error) {
	return g.events.FindBy(ctx, "aircraft_id", aircraftID, limit)
}

// FindMaintenanceEventsBySeverity returns events at the given severity,
// most recently reported first.
func (g *GraphStore) FindMaintenanceEventsBySeverity(ctx context.Context, severity string, limit int) ([]MaintenanceEvent, error) {
	return g.events.FindBy(ctx, "severity", severity, limit)
}

// FindMaintenanceEventsByComponent returns events recorded against a
// single component.
func (g *GraphStore) FindMaintenanceEventsByComponent(ctx context.Context, componentID string, limit int) ([]MaintenanceEvent, error) {
	return g.events.FindBy(ctx, "component_id", componentID, limit)
}

// ListMaintenanceEvents returns up to limit events with no ordering
// guarantee.
func (g *GraphStore) ListMaintenanceEvents(ctx context.Context, limit int) ([]MaintenanceEvent, error) {
	return g.events.FindAll(ctx, limit)
}

// DeleteMaintenanceEvent removes an event and reports whether it existed.
func (g *GraphStore) DeleteMaintenanceEvent(ctx context.Context, id string) (bool, error) {
	return g.events.Delete(ctx, id)
}

// LinkMaintenanceEvent attaches an event to the aircraft it was reported
// against and, when the event names a component, to that component too.
func (g *GraphStore) LinkMaintenanceEvent(ctx context.Context, m MaintenanceEvent) error {
	if err := g.link(ctx, "Aircraft", "aircraft_id", m.AircraftID, "HAS_EVENT", "MaintenanceEvent", "event_id", m.EventID); err != nil {
		return err
	}
	if m.ComponentID == "" {
		return nil
	}
	return g.link(ctx, "Component", "component_id", m.ComponentID, "HAS_EVENT", "MaintenanceEvent", "event_id", m.EventID)
}
