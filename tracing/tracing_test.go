package tracing_test

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/next-trace/scg-mediator/config"
	"github.com/next-trace/scg-mediator/tracing"
)

func Test_InitProvider_DisabledIsNoop(t *testing.T) {
	tp, shutdown, err := tracing.InitProvider(t.Context(), config.TracingConfig{}, "svc")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	_, span := tp.Tracer("x").Start(t.Context(), "op")
	if span.SpanContext().IsValid() {
		t.Fatalf("disabled provider must not record spans")
	}

	span.End()

	if err := shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func Test_InitProvider_RequiresEndpoint(t *testing.T) {
	if _, _, err := tracing.InitProvider(t.Context(), config.TracingConfig{Enabled: true}, "svc"); err == nil {
		t.Fatalf("want error without endpoint")
	}
}

func Test_Propagator_RoundTrip(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(t.Context(), "forward")
	defer span.End()

	p := tracing.NewPropagator()
	headers := map[string]string{"x-message-type": "Zing"}
	p.Inject(ctx, headers)

	if headers["traceparent"] == "" {
		t.Fatalf("traceparent not injected: %v", headers)
	}

	remote := trace.SpanContextFromContext(p.Extract(context.Background(), headers))
	if remote.TraceID() != span.SpanContext().TraceID() || !remote.IsRemote() {
		t.Fatalf("extracted %v, want trace %v", remote.TraceID(), span.SpanContext().TraceID())
	}

	p.Inject(ctx, nil) // tolerated
}
