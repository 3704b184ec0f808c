package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

type widget struct {
	ID   string
	Name string
}

func widgetToMap(w widget) map[string]any {
	return map[string]any{"widget_id": w.ID, "name": w.Name}
}

func widgetFromProps(props map[string]any) (widget, error) {
	id, ok := props["widget_id"].(string)
	if !ok {
		return widget{}, errors.New("missing widget_id")
	}
	name, ok := props["name"].(string)
	if !ok {
		return widget{}, errors.New("missing name")
	}
	return widget{ID: id, Name: name}, nil
}

func widgetNodeRecord(props map[string]any) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"n"},
		Values: []any{dbtype.Node{Props: props}},
	}
}

type fakeResult struct {
	records []*neo4j.Record
	idx     int
}

func (r *fakeResult) Next(_ context.Context) bool {
	if r.idx >= len(r.records) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeResult) Record() *neo4j.Record { return r.records[r.idx-1] }

type fakeSession struct {
	records []*neo4j.Record
	runErr  error
	closed  bool
	cypher  string
	params  map[string]any
}

func (s *fakeSession) Run(_ context.Context, cypher string, params map[string]any) (Result, error) {
	s.cypher = cypher
	s.params = params
	if s.runErr != nil {
		return nil, s.runErr
	}
	return &fakeResult{records: s.records}, nil
}

func (s *fakeSession) Close(_ context.Context) error {
	s.closed = true
	return nil
}

type fakeOpener struct {
	session *fakeSession
}

func (o *fakeOpener) OpenSession(_ context.Context) Session { return o.session }

func newWidgetRepo(sess *fakeSession) *Neo4jRepo[widget] {
	return NewNeo4jRepo(
		&fakeOpener{session: sess},
		"Widget",
		"widget_id",
		widgetToMap,
		widgetFromProps,
		WithQueryable[widget]("name"),
	)
}

func TestCreate_MergeByKey(t *testing.T) {
	sess := &fakeSession{}
	r := newWidgetRepo(sess)

	w := widget{ID: "w1", Name: "gear"}
	got, err := r.Create(context.Background(), w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != w {
		t.Fatal("create must return the input unchanged")
	}
	if !strings.Contains(sess.cypher, "MERGE (n:Widget {widget_id: $id})") {
		t.Fatalf("expected merge by key, got %q", sess.cypher)
	}
	if !sess.closed {
		t.Fatal("session not closed")
	}
}

func TestCreate_EmptyID(t *testing.T) {
	r := newWidgetRepo(&fakeSession{})

	_, err := r.Create(context.Background(), widget{Name: "gear"})
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := newWidgetRepo(&fakeSession{})

	_, err := r.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	sess := &fakeSession{records: []*neo4j.Record{
		widgetNodeRecord(map[string]any{"widget_id": "w1", "name": "gear"}),
	}}
	r := newWidgetRepo(sess)

	w, err := r.Get(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Name != "gear" {
		t.Fatalf("wrong widget: %+v", w)
	}
}

func TestFindByID_AbsentIsNil(t *testing.T) {
	r := newWidgetRepo(&fakeSession{})

	w, err := r.FindByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if w != nil {
		t.Fatalf("expected nil, got %+v", w)
	}
}

func TestFindBy_UnqueryableField(t *testing.T) {
	r := newWidgetRepo(&fakeSession{})

	_, err := r.FindBy(context.Background(), "color", "red", 10)
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError for unqueryable field, got %v", err)
	}
}

func TestFindBy_KeyFieldAlwaysQueryable(t *testing.T) {
	sess := &fakeSession{}
	r := newWidgetRepo(sess)

	_, err := r.FindBy(context.Background(), "widget_id", "w1", 10)
	if err != nil {
		t.Fatalf("key field must be queryable, got %v", err)
	}
}

func TestFindBy_DefaultLimit(t *testing.T) {
	sess := &fakeSession{}
	r := newWidgetRepo(sess)

	_, err := r.FindBy(context.Background(), "name", "gear", -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.params["limit"] != DefaultLimit {
		t.Fatalf("expected default limit %d, got %v", DefaultLimit, sess.params["limit"])
	}
}

func TestFindBy_SortApplied(t *testing.T) {
	sess := &fakeSession{}
	r := NewNeo4jRepo(
		&fakeOpener{session: sess},
		"Widget",
		"widget_id",
		widgetToMap,
		widgetFromProps,
		WithQueryable[widget]("name"),
		WithSortDesc[widget]("name", "created_at"),
	)

	_, err := r.FindBy(context.Background(), "name", "gear", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sess.cypher, "ORDER BY n.created_at DESC") {
		t.Fatalf("expected sort clause, got %q", sess.cypher)
	}
}

func TestFindAll_Bounded(t *testing.T) {
	sess := &fakeSession{records: []*neo4j.Record{
		widgetNodeRecord(map[string]any{"widget_id": "w1", "name": "gear"}),
		widgetNodeRecord(map[string]any{"widget_id": "w2", "name": "cog"}),
	}}
	r := newWidgetRepo(sess)

	items, err := r.FindAll(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if sess.params["limit"] != 50 {
		t.Fatalf("expected limit 50, got %v", sess.params["limit"])
	}
}

func TestDelete_ReportsExistence(t *testing.T) {
	for _, tt := range []struct {
		deleted int64
		want    bool
	}{
		{1, true},
		{0, false},
	} {
		sess := &fakeSession{records: []*neo4j.Record{
			{Keys: []string{"deleted"}, Values: []any{tt.deleted}},
		}}
		r := newWidgetRepo(sess)

		existed, err := r.Delete(context.Background(), "w1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if existed != tt.want {
			t.Fatalf("deleted=%d: expected %v, got %v", tt.deleted, tt.want, existed)
		}
	}
}

func TestDecode_WrapsFromPropsError(t *testing.T) {
	sess := &fakeSession{records: []*neo4j.Record{
		widgetNodeRecord(map[string]any{"widget_id": "w1"}), // name missing
	}}
	r := newWidgetRepo(sess)

	_, err := r.FindByID(context.Background(), "w1")
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if qe.Op != "decode" {
		t.Fatalf("expected decode op, got %q", qe.Op)
	}
}

func TestQueryError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &QueryError{Label: "Widget", Op: "find", Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
}
