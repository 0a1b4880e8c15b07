package handler

import "context"

// Context is re-exported for convenience in handler signatures.
type Context = context.Context

// HeaderPropagator abstracts injecting tracing context into headers.
// Implementations may bridge to OpenTelemetry or any other propagation standard.
// Implementations must be safe for concurrent use.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}

// NopHeaderPropagator is a no-op implementation useful for tests or when tracing is disabled.
type NopHeaderPropagator struct{}

func (NopHeaderPropagator) Inject(ctx context.Context, headers map[string]string) {
	_ = ctx
	_ = headers
}
