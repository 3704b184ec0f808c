package graph

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNodeCounts(t *testing.T) {
	sess := &mockSession{results: []*mockResult{newMockResult(
		makeRecord([]string{"type", "count"}, []any{"Aircraft", int64(10)}),
		makeRecord([]string{"type", "count"}, []any{"System", int64(40)}),
	)}}
	gs := NewWithOpener(&mockOpener{session: sess})

	counts, err := gs.NodeCounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts["Aircraft"] != 10 || counts["System"] != 40 {
		t.Fatalf("wrong counts: %v", counts)
	}
}

func TestRelationshipCounts(t *testing.T) {
	sess := &mockSession{results: []*mockResult{newMockResult(
		makeRecord([]string{"type", "count"}, []any{"HAS_SYSTEM", int64(40)}),
	)}}
	gs := NewWithOpener(&mockOpener{session: sess})

	counts, err := gs.RelationshipCounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts["HAS_SYSTEM"] != 40 {
		t.Fatalf("wrong counts: %v", counts)
	}
}

func TestSystemComponentCounts(t *testing.T) {
	sess := &mockSession{results: []*mockResult{newMockResult(
		makeRecord([]string{"system_type", "component_count"}, []any{"hydraulic", int64(12)}),
		makeRecord([]string{"system_type", "component_count"}, []any{"avionics", int64(7)}),
	)}}
	gs := NewWithOpener(&mockOpener{session: sess})

	counts, err := gs.SystemComponentCounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(counts))
	}
	if counts[0].SystemType != "hydraulic" || counts[0].Count != 12 {
		t.Fatalf("wrong first row: %+v", counts[0])
	}
	if !strings.Contains(sess.cyphers[0], "ORDER BY component_count DESC") {
		t.Fatalf("expected descending order, got %q", sess.cyphers[0])
	}
}

func TestNodeCounts_Error(t *testing.T) {
	sess := &mockSession{runErr: errors.New("boom")}
	gs := NewWithOpener(&mockOpener{session: sess})

	_, err := gs.NodeCounts(context.Background())
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
}
