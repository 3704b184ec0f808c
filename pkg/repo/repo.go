// Package repo defines the generic repository contract shared by all
// entity stores, plus the error taxonomy they surface.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrNotFound is returned by operations that require an existing target.
// An empty result from a scan or optional lookup is not an error.
var ErrNotFound = errors.New("not found")

// QueryError wraps any failure during query execution or result decoding.
// The original cause is preserved for diagnostics.
type QueryError struct {
	Label string
	Op    string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("repo: %s %s: %v", e.Op, e.Label, e.Cause)
}

func (e *QueryError) Unwrap() error { return e.Cause }

// Result is the minimal cursor surface needed from a query result.
type Result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
}

// Session is the minimal surface needed from a database session.
type Session interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Result, error)
	Close(ctx context.Context) error
}

// Opener provides scoped session acquisition. Each repository operation
// opens one session and closes it on every exit path.
type Opener interface {
	OpenSession(ctx context.Context) Session
}

// Repository is the CRUD contract implemented per entity type.
type Repository[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Get(ctx context.Context, id string) (T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindBy(ctx context.Context, field string, value any, limit int) ([]T, error)
	FindOneBy(ctx context.Context, field string, value any) (*T, error)
	FindAll(ctx context.Context, limit int) ([]T, error)
	Delete(ctx context.Context, id string) (bool, error)
}
