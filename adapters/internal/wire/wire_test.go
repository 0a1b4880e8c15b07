package wire_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/next-trace/scg-mediator/adapters/internal/wire"
	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/contract/handler"
)

type OrderPlaced struct{ ID string }

type Audited struct{ ID string }

func (Audited) Topic() string { return "audit.events" }

type stubPropagator struct{}

func (stubPropagator) Inject(_ context.Context, h map[string]string) { h["traceparent"] = "00-abc" }

func Test_Subject(t *testing.T) {
	if got := wire.Subject(OrderPlaced{}, handler.ForwardOptions{}); got != "mediator.OrderPlaced" {
		t.Fatalf("default subject=%q", got)
	}

	if got := wire.Subject(&OrderPlaced{}, handler.ForwardOptions{}); got != "mediator.OrderPlaced" {
		t.Fatalf("pointer subject=%q", got)
	}

	if got := wire.Subject(Audited{}, handler.ForwardOptions{}); got != "audit.events" {
		t.Fatalf("topical subject=%q", got)
	}

	if got := wire.Subject(Audited{}, handler.ForwardOptions{Subject: "override"}); got != "override" {
		t.Fatalf("override subject=%q", got)
	}
}

func Test_Headers(t *testing.T) {
	in := map[string]string{"tenant": "t1"}
	h := wire.Headers(t.Context(), OrderPlaced{}, handler.ForwardOptions{Key: "o-1", Headers: in}, stubPropagator{})

	if _, err := uuid.Parse(h[wire.HeaderMessageID]); err != nil {
		t.Fatalf("message id is not a uuid: %q", h[wire.HeaderMessageID])
	}

	if h[wire.HeaderMessageType] != "OrderPlaced" || h["tenant"] != "t1" || h[wire.HeaderKey] != "o-1" {
		t.Fatalf("headers=%v", h)
	}

	if h["traceparent"] == "" {
		t.Fatalf("propagator not applied: %v", h)
	}

	if len(in) != 1 {
		t.Fatalf("caller headers mutated: %v", in)
	}

	again := wire.Headers(t.Context(), OrderPlaced{}, handler.ForwardOptions{}, handler.NopHeaderPropagator{})
	if again[wire.HeaderMessageID] == h[wire.HeaderMessageID] {
		t.Fatalf("message ids must be unique per forward")
	}
}

func Test_Encode(t *testing.T) {
	b, err := wire.Encode("test", OrderPlaced{ID: "o-1"})
	if err != nil || string(b) != `{"ID":"o-1"}` {
		t.Fatalf("encode: %s %v", b, err)
	}

	if _, err := wire.Encode("test", make(chan int)); !errors.Is(err, berr.ErrSerializationFailed) {
		t.Fatalf("want ErrSerializationFailed, got %v", err)
	}
}

func Test_ReadyAndTransportError(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := wire.Ready(ctx, "x", false); !errors.Is(err, context.Canceled) {
		t.Fatalf("context error must come first, got %v", err)
	}

	if err := wire.Ready(t.Context(), "x", false); !errors.Is(err, berr.ErrBridgeNotConfigured) {
		t.Fatalf("want ErrBridgeNotConfigured, got %v", err)
	}

	if err := wire.TransportError("x", context.DeadlineExceeded); err != context.DeadlineExceeded { //nolint:errorlint // identity
		t.Fatalf("context errors pass through unchanged, got %v", err)
	}

	boom := errors.New("io")

	err := wire.TransportError("nats forward", boom)
	if !errors.Is(err, berr.ErrForwardFailed) || !errors.Is(err, boom) || !strings.HasPrefix(err.Error(), "nats forward") {
		t.Fatalf("unexpected wrap: %v", err)
	}

	if wire.TransportError("x", nil) != nil {
		t.Fatalf("nil stays nil")
	}
}
