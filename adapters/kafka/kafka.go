package kafka

import (
	"context"

	"github.com/next-trace/scg-mediator/adapters/internal/wire"
	"github.com/next-trace/scg-mediator/contract/handler"
)

// Writer is a minimal Kafka-like writer interface.
// Users can adapt any Kafka client to this; NewWithKgo wires franz-go.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter forwards mediator messages to Kafka topics through an injected Writer.
// The record key is ForwardOptions.Key; topics default to "mediator.<TypeName>".
type Adapter struct {
	Writer     Writer
	Propagator handler.HeaderPropagator // optional
}

var _ handler.Forwarder = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(w Writer, hp handler.HeaderPropagator) *Adapter {
	return &Adapter{Writer: w, Propagator: hp}
}

func (a *Adapter) Forward(ctx context.Context, msg any, opts handler.ForwardOptions) error {
	if err := wire.Ready(ctx, "kafka forward", a.Writer != nil); err != nil {
		return err
	}

	val, err := wire.Encode("kafka forward", msg)
	if err != nil {
		return err
	}

	var key []byte
	if opts.Key != "" {
		key = []byte(opts.Key)
	}

	topic := wire.Subject(msg, opts)
	headers := wire.Headers(ctx, msg, opts, a.Propagator)

	return wire.TransportError("kafka forward write", a.Writer.Write(ctx, topic, key, val, headers))
}
