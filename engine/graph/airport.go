package graph

import (
	"context"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

func newAirportRepo(opener repo.Opener) *repo.Neo4jRepo[Airport] {
	return repo.NewNeo4jRepo(
		opener,
		"Airport",
		"airport_id",
		airportToMap,
		airportFromProps,
		repo.WithQueryable[Airport]("iata", "icao", "country", "city"),
	)
}

func airportToMap(a Airport) map[string]any {
	return map[string]any{
		"airport_id": a.AirportID,
		"iata":       a.IATA,
		"icao":       a.ICAO,
		"name":       a.Name,
		"city":       a.City,
		"country":    a.Country,
		"lat":        a.Lat,
		"lon":        a.Lon,
	}
}

func airportFromProps(props map[string]any) (Airport, error) {
	r := newPropReader(props)
	a := Airport{
		AirportID: r.str("airport_id"),
		IATA:      r.str("iata"),
		ICAO:      r.str("icao"),
		Name:      r.str("name"),
		City:      r.str("city"),
		Country:   r.str("country"),
		Lat:       r.f64("lat"),
		Lon:       r.f64("lon"),
	}
	return a, r.Err()
}

// CreateAirport upserts an airport by airport_id.
func (g *GraphStore) CreateAirport(ctx context.Context, a Airport) (Airport, error) {
	return g.airports.Create(ctx, a)
}

// FindAirportByID returns nil when no airport matches.
func (g *GraphStore) FindAirportByID(ctx context.Context, id string) (*Airport, error) {
	return g.airports.FindByID(ctx, id)
}

// FindAirportByIATA looks up the single airport with the given IATA code.
func (g *GraphStore) FindAirportByIATA(ctx context.Context, iata string) (*Airport, error) {
	return g.airports.FindOneBy(ctx, "iata", iata)
}

// FindAirportsByCountry returns all airports in a country.
func (g *GraphStore) FindAirportsByCountry(ctx context.Context, country string, limit int) ([]Airport, error) {
	return g.airports.FindBy(ctx, "country", country, limit)
}

// ListAirports returns up to limit airports with no ordering guarantee.
func (g *GraphStore) ListAirports(ctx context.Context, limit int) ([]Airport, error) {
	return g.airports.FindAll(ctx, limit)
}

// DeleteAirport removes an airport and reports whether it existed.
func (g *GraphStore) DeleteAirport(ctx context.Context, id string) (bool, error) {
	return g.airports.Delete(ctx, id)
}
