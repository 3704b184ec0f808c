// Package semantic provides vector similarity search over maintenance
// fault descriptions, backed by Qdrant.
package semantic

// FaultRecord is one maintenance event prepared for indexing: the fault
// text embedding plus the payload fields needed to present a match.
type FaultRecord struct {
	EventID    string
	AircraftID string
	Severity   string
	Fault      string
	Vector     []float32
}

// FaultMatch is one similarity search hit.
type FaultMatch struct {
	EventID    string  `json:"event_id"`
	AircraftID string  `json:"aircraft_id"`
	Severity   string  `json:"severity"`
	Fault      string  `json:"fault"`
	Score      float32 `json:"score"`
}
