package graph

import (
	"context"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

func newFlightRepo(opener repo.Opener) *repo.Neo4jRepo[Flight] {
	return repo.NewNeo4jRepo(
		opener,
		"Flight",
		"flight_id",
		flightToMap,
		flightFromProps,
		repo.WithQueryable[Flight]("flight_number", "aircraft_id", "operator"),
		repo.WithSortDesc[Flight]("aircraft_id", "scheduled_departure"),
	)
}

func flightToMap(f Flight) map[string]any {
	return map[string]any{
		"flight_id":           f.FlightID,
		"flight_number":       f.FlightNumber,
		"aircraft_id":         f.AircraftID,
		"operator":            f.Operator,
		"origin":              f.Origin,
		"destination":         f.Destination,
		"scheduled_departure": f.ScheduledDeparture,
		"scheduled_arrival":   f.ScheduledArrival,
	}
}

func flightFromProps(props map[string]any) (Flight, error) {
	r := newPropReader(props)
	f := Flight{
		FlightID:           r.str("flight_id"),
		FlightNumber:       r.str("flight_number"),
		AircraftID:         r.str("aircraft_id"),
		Operator:           r.str("operator"),
		Origin:             r.str("origin"),
		Destination:        r.str("destination"),
		ScheduledDeparture: r.str("scheduled_departure"),
		ScheduledArrival:   r.str("scheduled_arrival"),
	}
	return f, r.Err()
}

// CreateFlight upserts a flight by flight_id.
func (g *GraphStore) CreateFlight(ctx context.Context, f Flight) (Flight, error) {
	return g.flights.Create(ctx, f)
}

// FindFlightByID returns nil when no flight matches.
func (g *GraphStore) FindFlightByID(ctx context.Context, id string) (*Flight, error) {
	return g.flights.FindByID(ctx, id)
}

// FindFlightsByNumber returns flights sharing a flight number. Flight
// numbers repeat across days, so this is a many-result lookup.
func (g *GraphStore) FindFlightsByNumber(ctx context.Context, number string, limit int) ([]Flight, error) {
	return g.flights.FindBy(ctx, "flight_number", number, limit)
}

// FindFlightsByAircraft returns an aircraft's flights, most recent
// scheduled departure first.
func (g *GraphStore) FindFlightsByAircraft(ctx context.Context, aircraftID string, limit int) ([]Flight, error) {
	return g.flights.FindBy(ctx, "aircraft_id", aircraftID, limit)
}

// FindFlightsByRoute returns flights between two airports by IATA code.
func (g *GraphStore) FindFlightsByRoute(ctx context.Context, origin, destination string, limit int) ([]Flight, error) {
	if limit <= 0 {
		limit = repo.DefaultLimit
	}

	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (n:Flight {origin: $origin, destination: $destination})
	           RETURN n
	           LIMIT $limit`
	result, err := sess.Run(ctx, cypher, map[string]any{
		"origin":      origin,
		"destination": destination,
		"limit":       limit,
	})
	if err != nil {
		return nil, &QueryError{Label: "Flight", Op: "find", Cause: err}
	}
	return collectNodes(ctx, result, "n", flightFromProps)
}

// ListFlights returns up to limit flights with no ordering guarantee.
func (g *GraphStore) ListFlights(ctx context.Context, limit int) ([]Flight, error) {
	return g.flights.FindAll(ctx, limit)
}

// DeleteFlight removes a flight and reports whether it existed.
func (g *GraphStore) DeleteFlight(ctx context.Context, id string) (bool, error) {
	return g.flights.Delete(ctx, id)
}

func newDelayRepo(opener repo.Opener) *repo.Neo4jRepo[Delay] {
	return repo.NewNeo4jRepo(
		opener,
		"Delay",
		"delay_id",
		delayToMap,
		delayFromProps,
		repo.WithQueryable[Delay]("flight_id", "cause"),
	)
}

func delayToMap(d Delay) map[string]any {
	return map[string]any{
		"delay_id":  d.DelayID,
		"flight_id": d.FlightID,
		"cause":     d.Cause,
		"minutes":   d.Minutes,
	}
}

func delayFromProps(props map[string]any) (Delay, error) {
	r := newPropReader(props)
	d := Delay{
		DelayID:  r.str("delay_id"),
		FlightID: r.str("flight_id"),
		Cause:    r.str("cause"),
		Minutes:  r.i64("minutes"),
	}
	return d, r.Err()
}

// CreateDelay upserts a delay by delay_id.
func (g *GraphStore) CreateDelay(ctx context.Context, d Delay) (Delay, error) {
	return g.delays.Create(ctx, d)
}

// FindDelayByID returns nil when no delay matches.
func (g *GraphStore) FindDelayByID(ctx context.Context, id string) (*Delay, error) {
	return g.delays.FindByID(ctx, id)
}

// FindDelaysByFlight returns all delays recorded against a flight.
func (g *GraphStore) FindDelaysByFlight(ctx context.Context, flightID string, limit int) ([]Delay, error) {
	return g.delays.FindBy(ctx, "flight_id", flightID, limit)
}

// FindDelaysByCause returns delays with the given cause.
func (g *GraphStore) FindDelaysByCause(ctx context.Context, cause string, limit int) ([]Delay, error) {
	return g.delays.FindBy(ctx, "cause", cause, limit)
}

// DeleteDelay removes a delay and reports whether it existed.
func (g *GraphStore) DeleteDelay(ctx context.Context, id string) (bool, error) {
	return g.delays.Delete(ctx, id)
}

// LinkFlightDelay records that a flight has a delay.
func (g *GraphStore) LinkFlightDelay(ctx context.Context, flightID, delayID string) error {
	return g.link(ctx, "Flight", "flight_id", flightID, "HAS_DELAY", "Delay", "delay_id", delayID)
}
