package graph

import (
	"context"
)

// SystemTypeCount is one system type with its total component count.
type SystemTypeCount struct {
	SystemType string `json:"system_type"`
	Count      int64  `json:"component_count"`
}

// NodeCounts returns the number of nodes per label across the graph.
func (g *GraphStore) NodeCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (n) RETURN labels(n)[0] AS type, count(*) AS count`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, &QueryError{Label: "*", Op: "stats", Cause: err}
	}

	counts := map[string]int64{}
	for result.Next(ctx) {
		rec := result.Record()
		counts[recordString(rec, "type")] = recordCount(rec, "count")
	}
	return counts, nil
}

// RelationshipCounts returns the number of relationships per type.
func (g *GraphStore) RelationshipCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH ()-[r]->() RETURN type(r) AS type, count(*) AS count`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, &QueryError{Label: "*", Op: "stats", Cause: err}
	}

	counts := map[string]int64{}
	for result.Next(ctx) {
		rec := result.Record()
		counts[recordString(rec, "type")] = recordCount(rec, "count")
	}
	return counts, nil
}

// SystemComponentCounts returns, per system type, how many components the
// fleet carries, busiest system types first.
func (g *GraphStore) SystemComponentCounts(ctx context.Context) ([]SystemTypeCount, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (s:System)-[:HAS_COMPONENT]->(c:Component)
	           RETURN s.type AS system_type, count(c) AS component_count
	           ORDER BY component_count DESC`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, &QueryError{Label: "System", Op: "stats", Cause: err}
	}

	var counts []SystemTypeCount
	for result.Next(ctx) {
		rec := result.Record()
		counts = append(counts, SystemTypeCount{
			SystemType: recordString(rec, "system_type"),
			Count:      recordCount(rec, "component_count"),
		})
	}
	return counts, nil
}
