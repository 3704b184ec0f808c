package graph

import (
	"fmt"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

// ErrNotFound is returned by operations that semantically require an
// existing target (e.g. ComponentDetails on a missing component). An empty
// result from a scan or an absent FindByID is a normal outcome, not an error.
var ErrNotFound = repo.ErrNotFound

// QueryError wraps any failure during query execution or result decoding.
type QueryError = repo.QueryError

// ConnError is raised when the initial connectivity check fails or an
// operation is attempted without a live driver. Never retried internally.
type ConnError struct {
	URI   string
	Cause error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("graph: connect %s: %v", e.URI, e.Cause)
}

func (e *ConnError) Unwrap() error { return e.Cause }
