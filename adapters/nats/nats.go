package nats

import (
	"context"

	"github.com/next-trace/scg-mediator/adapters/internal/wire"
	"github.com/next-trace/scg-mediator/contract/handler"
)

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(ctx context.Context, subject string, data []byte, headers map[string]string) error
}

// Adapter forwards mediator messages to NATS subjects through an injected Client.
// Subjects default to "mediator.<TypeName>".
type Adapter struct {
	Client     Client
	Propagator handler.HeaderPropagator // optional, injects trace context into headers
}

// Ensure Adapter implements the forwarding contract.
var _ handler.Forwarder = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(c Client, hp handler.HeaderPropagator) *Adapter {
	return &Adapter{Client: c, Propagator: hp}
}

func (a *Adapter) Forward(ctx context.Context, msg any, opts handler.ForwardOptions) error {
	if err := wire.Ready(ctx, "nats forward", a.Client != nil); err != nil {
		return err
	}

	body, err := wire.Encode("nats forward", msg)
	if err != nil {
		return err
	}

	subject := wire.Subject(msg, opts)
	headers := wire.Headers(ctx, msg, opts, a.Propagator)

	return wire.TransportError("nats forward publish", a.Client.Publish(ctx, subject, body, headers))
}
