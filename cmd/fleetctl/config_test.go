package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	t.Setenv("NEO4J_USERNAME", "")
	t.Setenv("NEO4J_PASSWORD", "")
	t.Setenv("NEO4J_DATABASE", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
	assert.Equal(t, "neo4j", cfg.Neo4j.Database)
	assert.Equal(t, "localhost:6334", cfg.Qdrant.Addr)
	assert.Equal(t, "fleet_faults", cfg.Qdrant.Collection)
	assert.Equal(t, 768, cfg.Qdrant.Dims)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.Model)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleetctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
neo4j:
  uri: bolt://db.internal:7687
  username: fleet
qdrant:
  addr: qdrant.internal:6334
  collection: custom_faults
ollama:
  model: all-minilm
`), 0o644))

	t.Setenv("NEO4J_URI", "bolt://override:7687")
	t.Setenv("NEO4J_USERNAME", "")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_DATABASE", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt://override:7687", cfg.Neo4j.URI, "env must override file")
	assert.Equal(t, "fleet", cfg.Neo4j.Username, "file value kept when env unset")
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "qdrant.internal:6334", cfg.Qdrant.Addr)
	assert.Equal(t, "custom_faults", cfg.Qdrant.Collection)
	assert.Equal(t, "all-minilm", cfg.Ollama.Model)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestFixtureParsing(t *testing.T) {
	data := []byte(`{
		"aircraft": [{"aircraft_id": "AC001", "tail_number": "N1", "icao24": "abc", "model": "737", "manufacturer": "Boeing", "operator": "Skyways"}],
		"systems": [{"system_id": "SYS1", "aircraft_id": "AC001", "name": "Hydraulics", "type": "hydraulic"}],
		"delays": [{"delay_id": "D1", "flight_id": "F1", "cause": "Weather", "minutes": 45}]
	}`)
	var fx Fixture
	require.NoError(t, json.Unmarshal(data, &fx))

	require.Len(t, fx.Aircraft, 1)
	assert.Equal(t, "AC001", fx.Aircraft[0].AircraftID)
	require.Len(t, fx.Systems, 1)
	assert.Equal(t, "AC001", fx.Systems[0].AircraftID)
	require.Len(t, fx.Delays, 1)
	assert.Equal(t, int64(45), fx.Delays[0].Minutes)
}
