package natsutil

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
)

func TestHeaderCarrier_SetGet(t *testing.T) {
	msg := &nats.Msg{}
	c := (*headerCarrier)(msg)

	c.Set("traceparent", "00-abc-def-01")
	if got := c.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("expected roundtrip, got %q", got)
	}
}

func TestHeaderCarrier_NilHeader(t *testing.T) {
	c := (*headerCarrier)(&nats.Msg{})
	if c.Get("missing") != "" {
		t.Fatal("nil header must read as empty")
	}
	if c.Keys() != nil {
		t.Fatal("nil header must have no keys")
	}
}

func TestHeaderCarrier_Keys(t *testing.T) {
	msg := &nats.Msg{}
	c := (*headerCarrier)(msg)
	c.Set("a", "1")
	c.Set("b", "2")

	keys := c.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
}

type ping struct {
	Seq int `json:"seq"`
}

func TestDispatch_DecodesPayload(t *testing.T) {
	var got ping
	h := dispatch(func(_ context.Context, p ping) { got = p })

	h(&nats.Msg{Data: []byte(`{"seq":7}`)})
	if got.Seq != 7 {
		t.Fatalf("expected seq=7, got %+v", got)
	}
}

func TestDispatch_DropsMalformed(t *testing.T) {
	called := false
	h := dispatch(func(_ context.Context, _ ping) { called = true })

	h(&nats.Msg{Data: []byte(`{not json`)})
	if called {
		t.Fatal("malformed message must be dropped")
	}
}
