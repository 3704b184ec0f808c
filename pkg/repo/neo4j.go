package repo

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// DefaultLimit bounds scans when the caller passes no explicit limit.
const DefaultLimit = 100

// Neo4jRepo is a generic Neo4j-backed repository for one node label,
// parameterized over entity type, key property, and a whitelist of
// queryable secondary properties.
type Neo4jRepo[T any] struct {
	opener    Opener
	label     string
	idKey     string
	toMap     func(T) map[string]any
	fromProps func(map[string]any) (T, error)
	queryable map[string]bool
	sorts     map[string]string // field -> ORDER BY property (descending)
}

// Neo4jOption configures a Neo4jRepo.
type Neo4jOption[T any] func(*Neo4jRepo[T])

// WithQueryable whitelists secondary properties for FindBy/FindOneBy.
func WithQueryable[T any](fields ...string) Neo4jOption[T] {
	return func(r *Neo4jRepo[T]) {
		for _, f := range fields {
			r.queryable[f] = true
		}
	}
}

// WithSortDesc makes FindBy on field order results by prop, most recent
// first. The entity defines its natural sort; everything else is unordered.
func WithSortDesc[T any](field, prop string) Neo4jOption[T] {
	return func(r *Neo4jRepo[T]) { r.sorts[field] = prop }
}

// NewNeo4jRepo creates a repository for the given node label. The key
// property is always queryable; secondary fields must be whitelisted.
func NewNeo4jRepo[T any](
	opener Opener,
	label string,
	idKey string,
	toMap func(T) map[string]any,
	fromProps func(map[string]any) (T, error),
	opts ...Neo4jOption[T],
) *Neo4jRepo[T] {
	r := &Neo4jRepo[T]{
		opener:    opener,
		label:     label,
		idKey:     idKey,
		toMap:     toMap,
		fromProps: fromProps,
		queryable: make(map[string]bool),
		sorts:     make(map[string]string),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Compile-time interface check.
var _ Repository[any] = (*Neo4jRepo[any])(nil)

// Create issues an idempotent upsert: merge by key, then overwrite all
// non-key properties. The entity is returned unchanged on success.
func (r *Neo4jRepo[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	props := r.toMap(entity)
	id, ok := props[r.idKey]
	if !ok || id == "" {
		return zero, &QueryError{Label: r.label, Op: "create", Cause: fmt.Errorf("entity has no %s", r.idKey)}
	}

	sess := r.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf("MERGE (n:%s {%s: $id}) SET n += $props", r.label, r.idKey)
	if _, err := sess.Run(ctx, cypher, map[string]any{"id": id, "props": props}); err != nil {
		return zero, &QueryError{Label: r.label, Op: "create", Cause: err}
	}
	return entity, nil
}

// Get fetches by key and fails with ErrNotFound when no node matches.
// Use FindByID when absence is an expected outcome.
func (r *Neo4jRepo[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	found, err := r.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if found == nil {
		return zero, fmt.Errorf("%s %s: %w", r.label, id, ErrNotFound)
	}
	return *found, nil
}

// FindByID fetches by key. Absence is a normal outcome: nil, nil.
func (r *Neo4jRepo[T]) FindByID(ctx context.Context, id string) (*T, error) {
	sess := r.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf("MATCH (n:%s {%s: $id}) RETURN n", r.label, r.idKey)
	result, err := sess.Run(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return nil, &QueryError{Label: r.label, Op: "find", Cause: err}
	}
	if !result.Next(ctx) {
		return nil, nil
	}
	item, err := r.decode(result.Record())
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindOneBy performs a unique secondary-property lookup (e.g. tail number,
// IATA code). Absence is nil, nil.
func (r *Neo4jRepo[T]) FindOneBy(ctx context.Context, field string, value any) (*T, error) {
	items, err := r.FindBy(ctx, field, value, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// FindBy returns all nodes whose property matches value, bounded by limit
// (limit <= 0 applies DefaultLimit). The field must be whitelisted.
func (r *Neo4jRepo[T]) FindBy(ctx context.Context, field string, value any, limit int) ([]T, error) {
	if field != r.idKey && !r.queryable[field] {
		return nil, &QueryError{Label: r.label, Op: "find", Cause: fmt.Errorf("property %q is not queryable", field)}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	sess := r.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	order := ""
	if prop, ok := r.sorts[field]; ok {
		order = fmt.Sprintf(" ORDER BY n.%s DESC", prop)
	}
	cypher := fmt.Sprintf("MATCH (n:%s {%s: $value}) RETURN n%s LIMIT $limit", r.label, field, order)
	result, err := sess.Run(ctx, cypher, map[string]any{"value": value, "limit": limit})
	if err != nil {
		return nil, &QueryError{Label: r.label, Op: "find", Cause: err}
	}
	return r.collect(ctx, result)
}

// FindAll returns up to limit nodes with no ordering guarantee.
func (r *Neo4jRepo[T]) FindAll(ctx context.Context, limit int) ([]T, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	sess := r.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf("MATCH (n:%s) RETURN n LIMIT $limit", r.label)
	result, err := sess.Run(ctx, cypher, map[string]any{"limit": limit})
	if err != nil {
		return nil, &QueryError{Label: r.label, Op: "list", Cause: err}
	}
	return r.collect(ctx, result)
}

// Delete removes the node (and its relationships) by key. It reports
// whether a matching node existed; deleting a missing key is not an error.
func (r *Neo4jRepo[T]) Delete(ctx context.Context, id string) (bool, error) {
	sess := r.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf("MATCH (n:%s {%s: $id}) DETACH DELETE n RETURN count(n) AS deleted", r.label, r.idKey)
	result, err := sess.Run(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return false, &QueryError{Label: r.label, Op: "delete", Cause: err}
	}
	if !result.Next(ctx) {
		return false, nil
	}
	deleted, _ := result.Record().Get("deleted")
	if n, ok := deleted.(int64); ok {
		return n > 0, nil
	}
	return false, nil
}

func (r *Neo4jRepo[T]) collect(ctx context.Context, result Result) ([]T, error) {
	var items []T
	for result.Next(ctx) {
		item, err := r.decode(result.Record())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Neo4jRepo[T]) decode(rec *neo4j.Record) (T, error) {
	var zero T
	val, ok := rec.Get("n")
	if !ok {
		return zero, &QueryError{Label: r.label, Op: "decode", Cause: fmt.Errorf("result has no n column")}
	}
	node, ok := val.(dbtype.Node)
	if !ok {
		return zero, &QueryError{Label: r.label, Op: "decode", Cause: fmt.Errorf("expected node, got %T", val)}
	}
	item, err := r.fromProps(node.Props)
	if err != nil {
		return zero, &QueryError{Label: r.label, Op: "decode", Cause: err}
	}
	return item, nil
}
