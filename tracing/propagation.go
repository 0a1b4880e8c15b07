package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"

	"github.com/next-trace/scg-mediator/contract/handler"
)

// Propagator writes W3C trace context (traceparent, tracestate, baggage) into bridge headers.
type Propagator struct {
	p propagation.TextMapPropagator
}

// NewPropagator returns a Propagator using W3C TraceContext and Baggage.
func NewPropagator() *Propagator {
	return &Propagator{p: newTextMapPropagator()}
}

func (p *Propagator) Inject(ctx context.Context, headers map[string]string) {
	if headers == nil {
		return
	}

	p.p.Inject(ctx, propagation.MapCarrier(headers))
}

// Extract returns ctx carrying the remote span context found in headers.
func (p *Propagator) Extract(ctx context.Context, headers map[string]string) context.Context {
	return p.p.Extract(ctx, propagation.MapCarrier(headers))
}

var _ handler.HeaderPropagator = (*Propagator)(nil)
