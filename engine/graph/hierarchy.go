package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

// AircraftParts returns the full systems-and-components hierarchy under
// one aircraft. Returns nil when the aircraft does not exist. Aircraft
// with no systems yet come back with an empty Systems slice.
func (g *GraphStore) AircraftParts(ctx context.Context, aircraftID string) (*AircraftParts, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (a:Aircraft {aircraft_id: $id})
	           OPTIONAL MATCH (a)-[:HAS_SYSTEM]->(s:System)
	           OPTIONAL MATCH (s)-[:HAS_COMPONENT]->(c:Component)
	           RETURN a AS aircraft,
	                  collect(DISTINCT s) AS systems,
	                  collect(DISTINCT {system_id: s.system_id, component: c}) AS components`
	result, err := sess.Run(ctx, cypher, map[string]any{"id": aircraftID})
	if err != nil {
		return nil, &QueryError{Label: "Aircraft", Op: "parts", Cause: err}
	}
	if !result.Next(ctx) {
		return nil, nil
	}
	rec := result.Record()

	props, err := recordNode(rec, "aircraft")
	if err != nil {
		return nil, &QueryError{Label: "Aircraft", Op: "parts", Cause: err}
	}
	aircraft, err := aircraftFromProps(props)
	if err != nil {
		return nil, &QueryError{Label: "Aircraft", Op: "decode", Cause: err}
	}

	parts := &AircraftParts{Aircraft: aircraft, Systems: []SystemParts{}}

	// collect(DISTINCT s) yields [null] when the aircraft has no systems.
	bySystem := map[string]int{}
	if raw, ok := rec.Get("systems"); ok {
		for _, item := range asList(raw) {
			sp, ok := optionalNode(item)
			if !ok {
				continue
			}
			system, err := systemFromProps(sp)
			if err != nil {
				return nil, &QueryError{Label: "System", Op: "decode", Cause: err}
			}
			bySystem[system.SystemID] = len(parts.Systems)
			parts.Systems = append(parts.Systems, SystemParts{System: system, Components: []Component{}})
		}
	}

	if raw, ok := rec.Get("components"); ok {
		for _, item := range asList(raw) {
			pair, ok := item.(map[string]any)
			if !ok {
				continue
			}
			systemID, _ := pair["system_id"].(string)
			cp, ok := optionalNode(pair["component"])
			if !ok {
				continue
			}
			component, err := componentFromProps(cp)
			if err != nil {
				return nil, &QueryError{Label: "Component", Op: "decode", Cause: err}
			}
			idx, ok := bySystem[systemID]
			if !ok {
				continue
			}
			parts.Systems[idx].Components = append(parts.Systems[idx].Components, component)
		}
	}

	return parts, nil
}

// AircraftSummary returns an aircraft with counts of its related systems,
// components, maintenance events and flights. Returns nil when the
// aircraft does not exist.
func (g *GraphStore) AircraftSummary(ctx context.Context, aircraftID string) (*AircraftSummary, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (a:Aircraft {aircraft_id: $id})
	           OPTIONAL MATCH (a)-[:HAS_SYSTEM]->(s:System)
	           OPTIONAL MATCH (s)-[:HAS_COMPONENT]->(c:Component)
	           OPTIONAL MATCH (a)-[:HAS_EVENT]->(m:MaintenanceEvent)
	           OPTIONAL MATCH (a)-[:OPERATES]->(f:Flight)
	           RETURN a AS aircraft,
	                  count(DISTINCT s) AS systems,
	                  count(DISTINCT c) AS components,
	                  count(DISTINCT m) AS maintenance_events,
	                  count(DISTINCT f) AS flights`
	result, err := sess.Run(ctx, cypher, map[string]any{"id": aircraftID})
	if err != nil {
		return nil, &QueryError{Label: "Aircraft", Op: "summary", Cause: err}
	}
	if !result.Next(ctx) {
		return nil, nil
	}
	rec := result.Record()

	props, err := recordNode(rec, "aircraft")
	if err != nil {
		return nil, &QueryError{Label: "Aircraft", Op: "summary", Cause: err}
	}
	aircraft, err := aircraftFromProps(props)
	if err != nil {
		return nil, &QueryError{Label: "Aircraft", Op: "decode", Cause: err}
	}

	return &AircraftSummary{
		Aircraft:          aircraft,
		Systems:           recordCount(rec, "systems"),
		Components:        recordCount(rec, "components"),
		MaintenanceEvents: recordCount(rec, "maintenance_events"),
		Flights:           recordCount(rec, "flights"),
	}, nil
}

// FindParts returns flattened aircraft/system/component rows matching the
// filter. Set filter fields compose conjunctively; a zero filter walks the
// whole fleet up to the limit.
func (g *GraphStore) FindParts(ctx context.Context, filter PartsFilter) ([]PartRow, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repo.DefaultLimit
	}

	var where []string
	params := map[string]any{"limit": limit}
	if filter.AircraftID != "" {
		where = append(where, "a.aircraft_id = $aircraft_id")
		params["aircraft_id"] = filter.AircraftID
	}
	if filter.SystemType != "" {
		where = append(where, "s.type = $system_type")
		params["system_type"] = filter.SystemType
	}

	cypher := `MATCH (a:Aircraft)-[:HAS_SYSTEM]->(s:System)-[:HAS_COMPONENT]->(c:Component)`
	if len(where) > 0 {
		cypher += "\n\t           WHERE " + strings.Join(where, " AND ")
	}
	cypher += `
	           RETURN a.aircraft_id AS aircraft_id,
	                  a.tail_number AS tail_number,
	                  a.model AS aircraft_model,
	                  s.system_id AS system_id,
	                  s.name AS system_name,
	                  s.type AS system_type,
	                  c.component_id AS component_id,
	                  c.name AS component_name,
	                  c.type AS component_type
	           ORDER BY a.tail_number, s.name, c.name
	           LIMIT $limit`

	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, &QueryError{Label: "Component", Op: "parts", Cause: err}
	}

	var rows []PartRow
	for result.Next(ctx) {
		rec := result.Record()
		rows = append(rows, PartRow{
			AircraftID:    recordString(rec, "aircraft_id"),
			TailNumber:    recordString(rec, "tail_number"),
			AircraftModel: recordString(rec, "aircraft_model"),
			SystemID:      recordString(rec, "system_id"),
			SystemName:    recordString(rec, "system_name"),
			SystemType:    recordString(rec, "system_type"),
			ComponentID:   recordString(rec, "component_id"),
			ComponentName: recordString(rec, "component_name"),
			ComponentType: recordString(rec, "component_type"),
		})
	}
	return rows, nil
}

// ComponentDetails returns a component with its owning system and aircraft
// and its maintenance history. Unlike the FindByID family this reports a
// missing component as ErrNotFound, since callers asking for details have
// an ID in hand that they expect to resolve.
func (g *GraphStore) ComponentDetails(ctx context.Context, componentID string) (*ComponentDetails, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (c:Component {component_id: $id})
	           OPTIONAL MATCH (c)<-[:HAS_COMPONENT]-(s:System)<-[:HAS_SYSTEM]-(a:Aircraft)
	           OPTIONAL MATCH (c)-[:HAS_EVENT]->(m:MaintenanceEvent)
	           RETURN c AS component, s AS system, a AS aircraft,
	                  collect(DISTINCT m) AS events`
	result, err := sess.Run(ctx, cypher, map[string]any{"id": componentID})
	if err != nil {
		return nil, &QueryError{Label: "Component", Op: "details", Cause: err}
	}
	if !result.Next(ctx) {
		return nil, fmt.Errorf("component %s: %w", componentID, ErrNotFound)
	}
	rec := result.Record()

	props, err := recordNode(rec, "component")
	if err != nil {
		return nil, &QueryError{Label: "Component", Op: "details", Cause: err}
	}
	component, err := componentFromProps(props)
	if err != nil {
		return nil, &QueryError{Label: "Component", Op: "decode", Cause: err}
	}

	details := &ComponentDetails{Component: component, Events: []MaintenanceEvent{}}

	if v, ok := rec.Get("system"); ok {
		if sp, ok := optionalNode(v); ok {
			system, err := systemFromProps(sp)
			if err != nil {
				return nil, &QueryError{Label: "System", Op: "decode", Cause: err}
			}
			details.System = &system
		}
	}
	if v, ok := rec.Get("aircraft"); ok {
		if ap, ok := optionalNode(v); ok {
			aircraft, err := aircraftFromProps(ap)
			if err != nil {
				return nil, &QueryError{Label: "Aircraft", Op: "decode", Cause: err}
			}
			details.Aircraft = &aircraft
		}
	}
	if raw, ok := rec.Get("events"); ok {
		for _, item := range asList(raw) {
			mp, ok := optionalNode(item)
			if !ok {
				continue
			}
			event, err := maintenanceEventFromProps(mp)
			if err != nil {
				return nil, &QueryError{Label: "MaintenanceEvent", Op: "decode", Cause: err}
			}
			details.Events = append(details.Events, event)
		}
	}

	return details, nil
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}
