package mediator_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/mediator"
)

type fakeObserver struct {
	mu       sync.Mutex
	warnings []berr.NoHandlerWarning
	settled  []mediator.DispatchEvent
}

func (f *fakeObserver) NoHandler(ctx context.Context, w berr.NoHandlerWarning) {
	f.mu.Lock()
	f.warnings = append(f.warnings, w)
	f.mu.Unlock()
}

func (f *fakeObserver) HandlerSettled(ctx context.Context, e mediator.DispatchEvent) {
	f.mu.Lock()
	f.settled = append(f.settled, e)
	f.mu.Unlock()
}

func Test_Observer_ReceivesWarningAndSettledEvents(t *testing.T) {
	obs := &fakeObserver{}
	m := mediator.New(quietLogger(), mediator.WithObserver(obs))

	if err := m.Publish(t.Context(), Zing("Zing")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(obs.warnings) != 1 || obs.warnings[0].TypeName != "Zing" {
		t.Fatalf("warnings=%+v", obs.warnings)
	}

	if obs.warnings[0].Request != Zing("Zing") {
		t.Fatalf("warning should carry the message: %+v", obs.warnings[0])
	}

	boom := errors.New("boom")
	rec := &recorder{}

	mediator.Register[Zing, Zap](m, newTagged[tagA](rec, "a", boom))
	mediator.Register[Zing, Zap](m, newTagged[tagB](rec, "b", nil))

	_ = m.Publish(t.Context(), Zing("Zing"))

	if len(obs.settled) != 2 {
		t.Fatalf("want 2 settled events, got %d", len(obs.settled))
	}

	failed := 0

	for _, e := range obs.settled {
		if e.Op != mediator.OpPublish || e.MessageType != "Zing" {
			t.Fatalf("unexpected event: %+v", e)
		}

		if e.Err != nil {
			failed++
		}
	}

	if failed != 1 {
		t.Fatalf("want one failed event, got %d", failed)
	}

	if _, err := m.Send(t.Context(), Zing("Zing")); err == nil && rec.len() == 0 {
		t.Fatalf("send did not dispatch")
	}

	if last := obs.settled[len(obs.settled)-1]; last.Op != mediator.OpSend {
		t.Fatalf("want send event last, got %+v", last)
	}
}

func Test_Tracing_SpansPerDispatchAndHandler(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	defer func() { _ = tp.Shutdown(context.Background()) }()

	m := mediator.New(quietLogger(), mediator.WithTracer(tp.Tracer("test")))
	rec := &recorder{}
	boom := errors.New("boom")

	mediator.Register[Zing, Zap](m, newTagged[tagA](rec, "a", boom))
	mediator.Register[Zing, Zap](m, newTagged[tagB](rec, "b", nil))

	_ = m.Publish(t.Context(), Zing("Zing"))

	var publish, handle, handleErr int

	for _, s := range sr.Ended() {
		switch s.Name() {
		case "mediator.publish":
			publish++

			if s.Status().Code != codes.Error {
				t.Fatalf("publish span should carry the failure")
			}
		case "mediator.handle":
			handle++

			if s.Status().Code == codes.Error {
				handleErr++
			}
		}
	}

	if publish != 1 || handle != 2 || handleErr != 1 {
		t.Fatalf("publish=%d handle=%d handleErr=%d", publish, handle, handleErr)
	}

	if _, err := m.Send(t.Context(), Ping("Ping")); !errors.Is(err, berr.ErrHandlerNotFound) {
		t.Fatalf("want ErrHandlerNotFound, got %v", err)
	}

	spans := sr.Ended()
	if last := spans[len(spans)-1]; last.Name() != "mediator.send" || last.Status().Code != codes.Error {
		t.Fatalf("unexpected send span: %s %v", last.Name(), last.Status())
	}
}
