package graph

import (
	"context"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

func newSensorRepo(opener repo.Opener) *repo.Neo4jRepo[Sensor] {
	return repo.NewNeo4jRepo(
		opener,
		"Sensor",
		"sensor_id",
		sensorToMap,
		sensorFromProps,
		repo.WithQueryable[Sensor]("system_id", "type"),
	)
}

func sensorToMap(s Sensor) map[string]any {
	return map[string]any{
		"sensor_id": s.SensorID,
		"system_id": s.SystemID,
		"name":      s.Name,
		"type":      s.Type,
		"unit":      s.Unit,
	}
}

func sensorFromProps(props map[string]any) (Sensor, error) {
	r := newPropReader(props)
	s := Sensor{
		SensorID: r.str("sensor_id"),
		SystemID: r.str("system_id"),
		Name:     r.str("name"),
		Type:     r.str("type"),
		Unit:     r.str("unit"),
	}
	return s, r.Err()
}

// CreateSensor upserts a sensor by sensor_id.
func (g *GraphStore) CreateSensor(ctx context.Context, s Sensor) (Sensor, error) {
	return g.sensors.Create(ctx, s)
}

// FindSensorByID returns nil when no sensor matches.
func (g *GraphStore) FindSensorByID(ctx context.Context, id string) (*Sensor, error) {
	return g.sensors.FindByID(ctx, id)
}

// FindSensorsBySystem returns a system's sensors.
func (g *GraphStore) FindSensorsBySystem(ctx context.Context, systemID string, limit int) ([]Sensor, error) {
	return g.sensors.FindBy(ctx, "system_id", systemID, limit)
}

// FindSensorsByType returns sensors of the given type across the fleet.
func (g *GraphStore) FindSensorsByType(ctx context.Context, sensorType string, limit int) ([]Sensor, error) {
	return g.sensors.FindBy(ctx, "type", sensorType, limit)
}

// ListSensors returns up to limit sensors with no ordering guarantee.
func (g *GraphStore) ListSensors(ctx context.Context, limit int) ([]Sensor, error) {
	return g.sensors.FindAll(ctx, limit)
}

// DeleteSensor removes a sensor and reports whether it existed.
func (g *GraphStore) DeleteSensor(ctx context.Context, id string) (bool, error) {
	return g.sensors.Delete(ctx, id)
}

func newReadingRepo(opener repo.Opener) *repo.Neo4jRepo[Reading] {
	return repo.NewNeo4jRepo(
		opener,
		"Reading",
		"reading_id",
		readingToMap,
		readingFromProps,
		repo.WithQueryable[Reading]("sensor_id"),
		repo.WithSortDesc[Reading]("sensor_id", "timestamp"),
	)
}

func readingToMap(r Reading) map[string]any {
	return map[string]any{
		"reading_id": r.ReadingID,
		"sensor_id":  r.SensorID,
		"timestamp":  r.Timestamp,
		"value":      r.Value,
	}
}

func readingFromProps(props map[string]any) (Reading, error) {
	r := newPropReader(props)
	rd := Reading{
		ReadingID: r.str("reading_id"),
		SensorID:  r.str("sensor_id"),
		Timestamp: r.str("timestamp"),
		Value:     r.f64("value"),
	}
	return rd, r.Err()
}

// CreateReading upserts a reading by reading_id.
func (g *GraphStore) CreateReading(ctx context.Context, r Reading) (Reading, error) {
	return g.readings.Create(ctx, r)
}

// FindReadingByID returns nil when no reading matches.
func (g *GraphStore) FindReadingByID(ctx context.Context, id string) (*Reading, error) {
	return g.readings.FindByID(ctx, id)
}

// FindReadingsBySensor returns a sensor's readings, newest first.
func (g *GraphStore) FindReadingsBySensor(ctx context.Context, sensorID string, limit int) ([]Reading, error) {
	return g.readings.FindBy(ctx, "sensor_id", sensorID, limit)
}

// DeleteReading removes a reading and reports whether it existed.
func (g *GraphStore) DeleteReading(ctx context.Context, id string) (bool, error) {
	return g.readings.Delete(ctx, id)
}

// LinkSensorReading records that a sensor produced a reading.
func (g *GraphStore) LinkSensorReading(ctx context.Context, sensorID, readingID string) error {
	return g.link(ctx, "Sensor", "sensor_id", sensorID, "HAS_READING", "Reading", "reading_id", readingID)
}

// RecordReading upserts a reading and attaches it to its sensor in one
// round trip. This is the hot path for telemetry ingest.
func (g *GraphStore) RecordReading(ctx context.Context, r Reading) (Reading, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MERGE (r:Reading {reading_id: $reading_id})
	           SET r += $props
	           WITH r
	           MATCH (s:Sensor {sensor_id: $sensor_id})
	           MERGE (s)-[:HAS_READING]->(r)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"reading_id": r.ReadingID,
		"sensor_id":  r.SensorID,
		"props":      readingToMap(r),
	})
	if err != nil {
		return Reading{}, &QueryError{Label: "Reading", Op: "create", Cause: err}
	}
	return r, nil
}
