package graph

import (
	"context"
	"fmt"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

// GraphStore provides fleet graph operations. One typed repository per
// entity label, plus aggregate queries that span the hierarchy.
type GraphStore struct {
	opener SessionOpener

	aircraft   *repo.Neo4jRepo[Aircraft]
	airports   *repo.Neo4jRepo[Airport]
	flights    *repo.Neo4jRepo[Flight]
	systems    *repo.Neo4jRepo[System]
	components *repo.Neo4jRepo[Component]
	sensors    *repo.Neo4jRepo[Sensor]
	readings   *repo.Neo4jRepo[Reading]
	events     *repo.Neo4jRepo[MaintenanceEvent]
	delays     *repo.Neo4jRepo[Delay]
}

// New creates a GraphStore on top of an established connection.
func New(conn *Conn) *GraphStore {
	return NewWithOpener(conn)
}

// NewWithOpener creates a GraphStore with a custom session opener.
func NewWithOpener(opener SessionOpener) *GraphStore {
	ro := repoOpener{opener: opener}
	return &GraphStore{
		opener:     opener,
		aircraft:   newAircraftRepo(ro),
		airports:   newAirportRepo(ro),
		flights:    newFlightRepo(ro),
		systems:    newSystemRepo(ro),
		components: newComponentRepo(ro),
		sensors:    newSensorRepo(ro),
		readings:   newReadingRepo(ro),
		events:     newMaintenanceEventRepo(ro),
		delays:     newDelayRepo(ro),
	}
}

// link merges a relationship between two existing nodes. Missing endpoints
// are a silent no-op, matching MERGE-over-MATCH semantics.
func (g *GraphStore) link(ctx context.Context, fromLabel, fromKey, fromID, rel, toLabel, toKey, toID string) error {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := fmt.Sprintf(
		`MATCH (a:%s {%s: $from}), (b:%s {%s: $to})
		 MERGE (a)-[:%s]->(b)`,
		fromLabel, fromKey, toLabel, toKey, rel,
	)
	if _, err := sess.Run(ctx, cypher, map[string]any{"from": fromID, "to": toID}); err != nil {
		return &QueryError{Label: fromLabel, Op: "link", Cause: err}
	}
	return nil
}

// collectNodes reads all nodes under the given alias from a result set.
func collectNodes[T any](ctx context.Context, result CypherResult, alias string, fromProps func(map[string]any) (T, error)) ([]T, error) {
	var items []T
	for result.Next(ctx) {
		props, err := recordNode(result.Record(), alias)
		if err != nil {
			return nil, err
		}
		item, err := fromProps(props)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
