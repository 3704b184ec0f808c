package graph

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// propReader extracts typed properties from a node property map, recording
// the first mismatch. Query results are loosely typed; every required field
// is validated here rather than silently defaulted.
type propReader struct {
	props map[string]any
	err   error
}

func newPropReader(props map[string]any) *propReader {
	return &propReader{props: props}
}

func (r *propReader) str(key string) string {
	if r.err != nil {
		return ""
	}
	v, ok := r.props[key]
	if !ok {
		r.err = fmt.Errorf("missing property %q", key)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.err = fmt.Errorf("property %q: expected string, got %T", key, v)
		return ""
	}
	return s
}

// f64 accepts both integer and float wire values: Neo4j returns whole
// numbers as int64 even for float properties.
func (r *propReader) f64(key string) float64 {
	if r.err != nil {
		return 0
	}
	v, ok := r.props[key]
	if !ok {
		r.err = fmt.Errorf("missing property %q", key)
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	r.err = fmt.Errorf("property %q: expected number, got %T", key, v)
	return 0
}

func (r *propReader) i64(key string) int64 {
	if r.err != nil {
		return 0
	}
	v, ok := r.props[key]
	if !ok {
		r.err = fmt.Errorf("missing property %q", key)
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	r.err = fmt.Errorf("property %q: expected integer, got %T", key, v)
	return 0
}

func (r *propReader) Err() error { return r.err }

// recordNode extracts the node under the given return alias.
func recordNode(rec *neo4j.Record, key string) (map[string]any, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, fmt.Errorf("result has no %q column", key)
	}
	node, ok := v.(dbtype.Node)
	if !ok {
		return nil, fmt.Errorf("column %q: expected node, got %T", key, v)
	}
	return node.Props, nil
}

// optionalNode unwraps a possibly-null node value from an OPTIONAL MATCH.
func optionalNode(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	node, ok := v.(dbtype.Node)
	if !ok {
		return nil, false
	}
	return node.Props, true
}

// recordString extracts a scalar string column, tolerating nulls from
// OPTIONAL MATCH rows.
func recordString(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// recordCount extracts an aggregate count column. A zero count is a real
// zero; a missing or non-integer column is also reported as zero.
func recordCount(rec *neo4j.Record, key string) int64 {
	v, _ := rec.Get(key)
	if n, ok := v.(int64); ok {
		return n
	}
	return 0
}
