package graph

import (
	"context"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

func newSystemRepo(opener repo.Opener) *repo.Neo4jRepo[System] {
	return repo.NewNeo4jRepo(
		opener,
		"System",
		"system_id",
		systemToMap,
		systemFromProps,
		repo.WithQueryable[System]("aircraft_id", "type"),
	)
}

func systemToMap(s System) map[string]any {
	return map[string]any{
		"system_id":   s.SystemID,
		"aircraft_id": s.AircraftID,
		"name":        s.Name,
		"type":        s.Type,
	}
}

func systemFromProps(props map[string]any) (System, error) {
	r := newPropReader(props)
	s := System{
		SystemID:   r.str("system_id"),
		AircraftID: r.str("aircraft_id"),
		Name:       r.str("name"),
		Type:       r.str("type"),
	}
	return s, r.Err()
}

// CreateSystem upserts a system by system_id.
func (g *GraphStore) CreateSystem(ctx context.Context, s System) (System, error) {
	return g.systems.Create(ctx, s)
}

// FindSystemByID returns nil when no system matches.
func (g *GraphStore) FindSystemByID(ctx context.Context, id string) (*System, error) {
	return g.systems.FindByID(ctx, id)
}

// FindSystemsByAircraft returns an aircraft's systems.
func (g *GraphStore) FindSystemsByAircraft(ctx context.Context, aircraftID string, limit int) ([]System, error) {
	return g.systems.FindBy(ctx, "aircraft_id", aircraftID, limit)
}

// FindSystemsByType returns systems of the given type across the fleet.
func (g *GraphStore) FindSystemsByType(ctx context.Context, systemType string, limit int) ([]System, error) {
	return g.systems.FindBy(ctx, "type", systemType, limit)
}

// ListSystems returns up to limit systems with no ordering guarantee.
func (g *GraphStore) ListSystems(ctx context.Context, limit int) ([]System, error) {
	return g.systems.FindAll(ctx, limit)
}

// DeleteSystem removes a system and reports whether it existed.
func (g *GraphStore) DeleteSystem(ctx context.Context, id string) (bool, error) {
	return g.systems.Delete(ctx, id)
}

// LinkSystemComponent records that a system contains a component.
func (g *GraphStore) LinkSystemComponent(ctx context.Context, systemID, componentID string) error {
	return g.link(ctx, "System", "system_id", systemID, "HAS_COMPONENT", "Component", "component_id", componentID)
}

// LinkSystemSensor records that a system carries a sensor.
func (g *GraphStore) LinkSystemSensor(ctx context.Context, systemID, sensorID string) error {
	return g.link(ctx, "System", "system_id", systemID, "HAS_SENSOR", "Sensor", "sensor_id", sensorID)
}

func newComponentRepo(opener repo.Opener) *repo.Neo4jRepo[Component] {
	return repo.NewNeo4jRepo(
		opener,
		"Component",
		"component_id",
		componentToMap,
		componentFromProps,
		repo.WithQueryable[Component]("system_id", "type"),
	)
}

func componentToMap(c Component) map[string]any {
	return map[string]any{
		"component_id": c.ComponentID,
		"system_id":    c.SystemID,
		"name":         c.Name,
		"type":         c.Type,
	}
}

func componentFromProps(props map[string]any) (Component, error) {
	r := newPropReader(props)
	c := Component{
		ComponentID: r.str("component_id"),
		SystemID:    r.str("system_id"),
		Name:        r.str("name"),
		Type:        r.str("type"),
	}
	return c, r.Err()
}

// CreateComponent upserts a component by component_id.
func (g *GraphStore) CreateComponent(ctx context.Context, c Component) (Component, error) {
	return g.components.Create(ctx, c)
}

// FindComponentByID returns nil when no component matches.
func (g *GraphStore) FindComponentByID(ctx context.Context, id string) (*Component, error) {
	return g.components.FindByID(ctx, id)
}

// FindComponentsBySystem returns a system's components.
func (g *GraphStore) FindComponentsBySystem(ctx context.Context, systemID string, limit int) ([]Component, error) {
	return g.components.FindBy(ctx, "system_id", systemID, limit)
}

// FindComponentsByType returns components of the given type across the fleet.
func (g *GraphStore) FindComponentsByType(ctx context.Context, componentType string, limit int) ([]Component, error) {
	return g.components.FindBy(ctx, "type", componentType, limit)
}

// ListComponents returns up to limit components with no ordering guarantee.
func (g *GraphStore) ListComponents(ctx context.Context, limit int) ([]Component, error) {
	return g.components.FindAll(ctx, limit)
}

// DeleteComponent removes a component and reports whether it existed.
func (g *GraphStore) DeleteComponent(ctx context.Context, id string) (bool, error) {
	return g.components.Delete(ctx, id)
}
