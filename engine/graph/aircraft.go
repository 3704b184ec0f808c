package graph

import (
	"context"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

func newAircraftRepo(opener repo.Opener) *repo.Neo4jRepo[Aircraft] {
	return repo.NewNeo4jRepo(
		opener,
		"Aircraft",
		"aircraft_id",
		aircraftToMap,
		aircraftFromProps,
		repo.WithQueryable[Aircraft]("tail_number", "icao24", "operator", "manufacturer"),
	)
}

func aircraftToMap(a Aircraft) map[string]any {
	return map[string]any{
		"aircraft_id":  a.AircraftID,
		"tail_number":  a.TailNumber,
		"icao24":       a.ICAO24,
		"model":        a.Model,
		"manufacturer": a.Manufacturer,
		"operator":     a.Operator,
	}
}

func aircraftFromProps(props map[string]any) (Aircraft, error) {
	r := newPropReader(props)
	a := Aircraft{
		AircraftID:   r.str("aircraft_id"),
		TailNumber:   r.str("tail_number"),
		ICAO24:       r.str("icao24"),
		Model:        r.str("model"),
		Manufacturer: r.str("manufacturer"),
		Operator:     r.str("operator"),
	}
	return a, r.Err()
}

// CreateAircraft upserts an aircraft by aircraft_id.
func (g *GraphStore) CreateAircraft(ctx context.Context, a Aircraft) (Aircraft, error) {
	return g.aircraft.Create(ctx, a)
}

// FindAircraftByID returns nil when no aircraft matches.
func (g *GraphStore) FindAircraftByID(ctx context.Context, id string) (*Aircraft, error) {
	return g.aircraft.FindByID(ctx, id)
}

// FindAircraftByTailNumber looks up the single aircraft with the given
// registration. Tail numbers are unique within the fleet.
func (g *GraphStore) FindAircraftByTailNumber(ctx context.Context, tail string) (*Aircraft, error) {
	return g.aircraft.FindOneBy(ctx, "tail_number", tail)
}

// FindAircraftByICAO24 looks up the single aircraft with the given
// transponder address.
func (g *GraphStore) FindAircraftByICAO24(ctx context.Context, icao24 string) (*Aircraft, error) {
	return g.aircraft.FindOneBy(ctx, "icao24", icao24)
}

// FindAircraftByOperator returns all aircraft flown by an operator.
func (g *GraphStore) FindAircraftByOperator(ctx context.Context, operator string, limit int) ([]Aircraft, error) {
	return g.aircraft.FindBy(ctx, "operator", operator, limit)
}

// FindAircraftByManufacturer returns a manufacturer's aircraft ordered by
// model, then tail number.
func (g *GraphStore) FindAircraftByManufacturer(ctx context.Context, manufacturer string, limit int) ([]Aircraft, error) {
	if limit <= 0 {
		limit = repo.DefaultLimit
	}

	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (n:Aircraft {manufacturer: $manufacturer})
	           RETURN n
	           ORDER BY n.model, n.tail_number
	           LIMIT $limit`
	result, err := sess.Run(ctx, cypher, map[string]any{"manufacturer": manufacturer, "limit": limit})
	if err != nil {
		return nil, &QueryError{Label: "Aircraft", Op: "find", Cause: err}
	}
	return collectNodes(ctx, result, "n", aircraftFromProps)
}

// ListAircraft returns up to limit aircraft with no ordering guarantee.
func (g *GraphStore) ListAircraft(ctx context.Context, limit int) ([]Aircraft, error) {
	return g.aircraft.FindAll(ctx, limit)
}

// DeleteAircraft removes an aircraft and reports whether it existed.
func (g *GraphStore) DeleteAircraft(ctx context.Context, id string) (bool, error) {
	return g.aircraft.Delete(ctx, id)
}

// LinkAircraftSystem records that an aircraft has a system.
func (g *GraphStore) LinkAircraftSystem(ctx context.Context, aircraftID, systemID string) error {
	return g.link(ctx, "Aircraft", "aircraft_id", aircraftID, "HAS_SYSTEM", "System", "system_id", systemID)
}

// LinkAircraftFlight records that an aircraft operates a flight.
func (g *GraphStore) LinkAircraftFlight(ctx context.Context, aircraftID, flightID string) error {
	return g.link(ctx, "Aircraft", "aircraft_id", aircraftID, "OPERATES", "Flight", "flight_id", flightID)
}
