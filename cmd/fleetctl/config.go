package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skyops-io/fleetgraph/engine/graph"
)

// Config holds fleetctl configuration. File values are overridden by the
// NEO4J_* environment variables, matching the services.
type Config struct {
	Neo4j  Neo4jConfig  `yaml:"neo4j,omitempty"`
	Qdrant QdrantConfig `yaml:"qdrant,omitempty"`
	Ollama OllamaConfig `yaml:"ollama,omitempty"`
}

// Neo4jConfig holds the graph connection target.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// QdrantConfig holds the vector store target.
type QdrantConfig struct {
	Addr       string `yaml:"addr,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	Dims       int    `yaml:"dims,omitempty"`
}

// OllamaConfig holds the embedding service target.
type OllamaConfig struct {
	URL   string `yaml:"url,omitempty"`
	Model string `yaml:"model,omitempty"`
}

// LoadConfig reads the YAML file at path (when given) and applies
// environment overrides and defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	env := graph.ConfigFromEnv()
	if v := os.Getenv("NEO4J_URI"); v != "" || cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = env.URI
	}
	if v := os.Getenv("NEO4J_USERNAME"); v != "" || cfg.Neo4j.Username == "" {
		cfg.Neo4j.Username = env.Username
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Neo4j.Password = v
	}
	if v := os.Getenv("NEO4J_DATABASE"); v != "" || cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = env.Database
	}

	if cfg.Qdrant.Addr == "" {
		cfg.Qdrant.Addr = "localhost:6334"
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = "fleet_faults"
	}
	if cfg.Qdrant.Dims == 0 {
		cfg.Qdrant.Dims = 768 // nomic-embed-text
	}
	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = "http://localhost:11434"
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = "nomic-embed-text"
	}
	return cfg, nil
}

func (c Config) graphConfig() graph.Config {
	return graph.Config{
		URI:      c.Neo4j.URI,
		Username: c.Neo4j.Username,
		Password: c.Neo4j.Password,
		Database: c.Neo4j.Database,
	}
}
