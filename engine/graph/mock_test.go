package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// makeNodeRecord builds a single-column record with a node under alias "n".
func makeNodeRecord(props map[string]any) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"n"},
		Values: []any{dbtype.Node{Props: props}},
	}
}

// makeRecord builds a record with arbitrary columns.
func makeRecord(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

type mockResult struct {
	records []*neo4j.Record
	idx     int
}

func newMockResult(records ...*neo4j.Record) *mockResult {
	return &mockResult{records: records}
}

func (r *mockResult) Next(_ context.Context) bool {
	if r.idx >= len(r.records) {
		return false
	}
	r.idx++
	return true
}

func (r *mockResult) Record() *neo4j.Record {
	return r.records[r.idx-1]
}

// mockSession records every Run call and replays canned results in order.
// When fewer results than calls are provided, the last one is reused.
type mockSession struct {
	results []*mockResult
	runErr  error
	closed  bool

	cyphers []string
	params  []map[string]any
}

func (s *mockSession) Run(_ context.Context, cypher string, params map[string]any) (CypherResult, error) {
	s.cyphers = append(s.cyphers, cypher)
	s.params = append(s.params, params)
	if s.runErr != nil {
		return nil, s.runErr
	}
	if len(s.results) == 0 {
		return newMockResult(), nil
	}
	i := len(s.cyphers) - 1
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i], nil
}

func (s *mockSession) ExecuteWrite(ctx context.Context, work func(tx CypherRunner) (any, error)) (any, error) {
	return work(s)
}

func (s *mockSession) Close(_ context.Context) error {
	s.closed = true
	return nil
}

type mockOpener struct {
	session *mockSession
}

func (o *mockOpener) OpenSession(_ context.Context) CypherSession {
	return o.session
}
