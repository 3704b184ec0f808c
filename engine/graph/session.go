package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/skyops-io/fleetgraph/pkg/repo"
)

// CypherResult is the minimal cursor surface used by the store.
type CypherResult interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
}

// CypherRunner runs a single parameterized query.
type CypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error)
}

// CypherSession is a scoped unit of work. Sessions are not safe for use by
// more than one logical operation at a time.
type CypherSession interface {
	CypherRunner
	ExecuteWrite(ctx context.Context, work func(tx CypherRunner) (any, error)) (any, error)
	Close(ctx context.Context) error
}

// SessionOpener provides scoped session acquisition.
type SessionOpener interface {
	OpenSession(ctx context.Context) CypherSession
}

// driverSession adapts neo4j.SessionWithContext to CypherSession.
type driverSession struct {
	sess neo4j.SessionWithContext
}

func (s *driverSession) Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error) {
	result, err := s.sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *driverSession) ExecuteWrite(ctx context.Context, work func(tx CypherRunner) (any, error)) (any, error) {
	return s.sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&managedTx{tx: tx})
	})
}

func (s *driverSession) Close(ctx context.Context) error {
	return s.sess.Close(ctx)
}

// managedTx adapts neo4j.ManagedTransaction to CypherRunner.
type managedTx struct {
	tx neo4j.ManagedTransaction
}

func (t *managedTx) Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error) {
	result, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// repoOpener adapts a SessionOpener to the pkg/repo Opener interface.
type repoOpener struct {
	opener SessionOpener
}

func (o repoOpener) OpenSession(ctx context.Context) repo.Session {
	return repoSession{sess: o.opener.OpenSession(ctx)}
}

type repoSession struct {
	sess CypherSession
}

func (s repoSession) Run(ctx context.Context, cypher string, params map[string]any) (repo.Result, error) {
	result, err := s.sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s repoSession) Close(ctx context.Context) error {
	return s.sess.Close(ctx)
}
