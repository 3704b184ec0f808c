// Package graph provides Neo4j-backed repositories and aggregate queries
// for the fleet aviation dataset.
package graph

// Aircraft represents a single airframe in the fleet.
type Aircraft struct {
	AircraftID   string `json:"aircraft_id"`
	TailNumber   string `json:"tail_number"`
	ICAO24       string `json:"icao24"`
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	Operator     string `json:"operator"`
}

// System represents a major aircraft system (e.g. Engine, Hydraulics, Avionics).
type System struct {
	SystemID   string `json:"system_id"`
	AircraftID string `json:"aircraft_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

// Component represents a replaceable part within a system.
type Component struct {
	ComponentID string `json:"component_id"`
	SystemID    string `json:"system_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
}

// Sensor represents an instrument attached to a system.
type Sensor struct {
	SensorID string `json:"sensor_id"`
	SystemID string `json:"system_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Unit     string `json:"unit"`
}

// Reading represents a single sensor measurement.
type Reading struct {
	ReadingID string  `json:"reading_id"`
	SensorID  string  `json:"sensor_id"`
	Timestamp string  `json:"timestamp"` // RFC3339, as stored in the dataset
	Value     float64 `json:"value"`
}

// MaintenanceEvent represents a reported fault and its corrective action.
type MaintenanceEvent struct {
	EventID          string `json:"event_id"`
	AircraftID       string `json:"aircraft_id"`
	SystemID         string `json:"system_id"`
	ComponentID      string `json:"component_id"`
	Fault            string `json:"fault"`
	Severity         string `json:"severity"` // e.g. CRITICAL, MAJOR, MINOR
	ReportedAt       string `json:"reported_at"`
	CorrectiveAction string `json:"corrective_action"`
}

// Flight represents a scheduled flight operated by one aircraft.
type Flight struct {
	FlightID           string `json:"flight_id"`
	FlightNumber       string `json:"flight_number"`
	AircraftID         string `json:"aircraft_id"`
	Operator           string `json:"operator"`
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	ScheduledDeparture string `json:"scheduled_departure"`
	ScheduledArrival   string `json:"scheduled_arrival"`
}

// Airport represents an airport referenced by flights via IATA/ICAO code.
type Airport struct {
	AirportID string  `json:"airport_id"`
	IATA      string  `json:"iata"`
	ICAO      string  `json:"icao"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Delay represents a delay recorded against a flight.
type Delay struct {
	DelayID  string `json:"delay_id"`
	FlightID string `json:"flight_id"`
	Cause    string `json:"cause"` // e.g. Weather, Mechanical, ATC
	Minutes  int64  `json:"minutes"`
}

// SystemParts is a system together with its components.
type SystemParts struct {
	System     System      `json:"system"`
	Components []Component `json:"components"`
}

// AircraftParts is the full aircraft → systems → components hierarchy.
type AircraftParts struct {
	Aircraft Aircraft      `json:"aircraft"`
	Systems  []SystemParts `json:"systems"`
}

// AircraftSummary holds an aircraft with counts of its related entities.
// Counts of zero are real zeroes, not absent fields.
type AircraftSummary struct {
	Aircraft          Aircraft `json:"aircraft"`
	Systems           int64    `json:"systems"`
	Components        int64    `json:"components"`
	MaintenanceEvents int64    `json:"maintenance_events"`
	Flights           int64    `json:"flights"`
}

// PartsFilter selects component rows. Zero-valued fields are unconstrained;
// set fields compose conjunctively.
type PartsFilter struct {
	AircraftID string
	SystemType string
	Limit      int
}

// PartRow is one flattened aircraft/system/component result row.
type PartRow struct {
	AircraftID    string `json:"aircraft_id"`
	TailNumber    string `json:"tail_number"`
	AircraftModel string `json:"aircraft_model"`
	SystemID      string `json:"system_id"`
	SystemName    string `json:"system_name"`
	SystemType    string `json:"system_type"`
	ComponentID   string `json:"component_id"`
	ComponentName string `json:"component_name"`
	ComponentType string `json:"component_type"`
}

// ComponentDetails is a component with its owning system and aircraft
// (nil when the component is orphaned) and its maintenance history.
type ComponentDetails struct {
	Component Component          `json:"component"`
	System    *System            `json:"system,omitempty"`
	Aircraft  *Aircraft          `json:"aircraft,omitempty"`
	Events    []MaintenanceEvent `json:"events"`
}
