package graph

import (
	"context"
	"os"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds the connection target for the fleet database.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// ConfigFromEnv builds a Config from NEO4J_URI, NEO4J_USERNAME,
// NEO4J_PASSWORD, and NEO4J_DATABASE, with local-development defaults.
func ConfigFromEnv() Config {
	return Config{
		URI:      envOr("NEO4J_URI", "bolt://localhost:7687"),
		Username: envOr("NEO4J_USERNAME", "neo4j"),
		Password: os.Getenv("NEO4J_PASSWORD"),
		Database: envOr("NEO4J_DATABASE", "neo4j"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Conn owns the lifetime of a single Neo4j driver and hands out scoped
// sessions bound to the configured database.
type Conn struct {
	driver   neo4j.DriverWithContext
	database string
	once     sync.Once
}

// Connect builds the driver and verifies reachability. Failure to reach the
// database is reported as a *ConnError without retrying.
func Connect(ctx context.Context, cfg Config) (*Conn, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, &ConnError{URI: cfg.URI, Cause: err}
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, &ConnError{URI: cfg.URI, Cause: err}
	}
	return &Conn{driver: driver, database: cfg.Database}, nil
}

// OpenSession returns a new session bound to the configured database.
// Callers must Close it on every exit path; sessions are independent per
// logical unit of work.
func (c *Conn) OpenSession(ctx context.Context) CypherSession {
	return &driverSession{
		sess: c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database}),
	}
}

// Close releases the underlying driver. Double close is a no-op.
func (c *Conn) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		err = c.driver.Close(ctx)
	})
	return err
}
