package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	berr "github.com/next-trace/scg-mediator/contract/errors"
)

const (
	tracerName = "github.com/next-trace/scg-mediator"

	attrMessageType = "mediator.message_type"
	attrHandlerType = "mediator.handler_type"
)

// Mediator registers handlers by message type and dispatches messages to them.
//
// Mediator is concurrency-safe and contains no global state. Registrations are
// append-only for the lifetime of the Mediator.
type Mediator struct {
	reg       *registry
	observers []Observer
	tracer    trace.Tracer
	logger    *slog.Logger

	// source of ids for function handlers
	seq atomic.Uint64
}

// Option configures a Mediator instance.
type Option func(*Mediator)

// WithObserver adds observers notified after the built-in log observer.
func WithObserver(o ...Observer) Option {
	return func(m *Mediator) { m.observers = append(m.observers, o...) }
}

// WithTracer sets the tracer used for dispatch spans.
func WithTracer(t trace.Tracer) Option {
	return func(m *Mediator) {
		if t != nil {
			m.tracer = t
		}
	}
}

// New constructs an empty Mediator. A nil logger falls back to slog.Default.
func New(logger *slog.Logger, opts ...Option) *Mediator {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mediator{
		reg:       newRegistry(),
		observers: []Observer{NewLogObserver(logger)},
		tracer:    otel.Tracer(tracerName),
		logger:    logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterOf registers an untyped handler for the runtime type of sample.
// handlerType identifies the handler within the set for that message type; registering the
// same handlerType twice is a no-op. A nil handlerType registers a distinct function handler.
func (m *Mediator) RegisterOf(sample any, handlerType reflect.Type, invoke func(ctx context.Context, msg any) (any, error)) {
	m.register(reflect.TypeOf(sample), handlerKey{typ: handlerType}, invoke)
}

func (m *Mediator) register(msgType reflect.Type, key handlerKey, invoke invokeFunc) {
	if key.typ == nil {
		key = m.funcKey(reflect.TypeOf(invoke))
	}

	if !m.reg.add(msgType, entry{key: key, invoke: invoke}) {
		m.logger.Debug("handler already registered", "message_type", typeName(msgType), "handler_type", key.String())
	}
}

func (m *Mediator) funcKey(t reflect.Type) handlerKey {
	return handlerKey{typ: t, id: m.seq.Add(1)}
}

// Send dispatches msg to one handler registered for its exact runtime type and returns the
// handler's result and error unchanged. When several handlers are registered, which one runs
// is unspecified. If none is registered, Send returns an *errors.UnknownHandlerError.
func (m *Mediator) Send(ctx context.Context, msg any) (any, error) {
	t := reflect.TypeOf(msg)

	ctx, span := m.tracer.Start(ctx, "mediator.send",
		trace.WithAttributes(attribute.String(attrMessageType, typeName(t))))
	defer span.End()

	e, ok := m.reg.pick(t)
	if !ok {
		err := &berr.UnknownHandlerError{Request: msg, TypeName: typeName(t)}
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.String(attrHandlerType, e.key.String()))

	res, err := m.invoke(ctx, OpSend, t, e, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return res, err
}

// Send is a typed helper over Mediator.Send. It fails with errors.ErrHandlerTypeMismatch
// when the handler's result is not an R.
func Send[R any](ctx context.Context, m *Mediator, msg any) (R, error) {
	var zero R

	res, err := m.Send(ctx, msg)
	if err != nil {
		return zero, err
	}

	if res == nil {
		return zero, nil
	}

	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("send %s: %w", typeName(reflect.TypeOf(msg)), berr.ErrHandlerTypeMismatch)
	}

	return r, nil
}

// Publish dispatches msg to every handler registered for its exact runtime type.
// Handlers run concurrently and are never canceled by the Mediator: Publish waits for all of
// them to settle and then returns the first error observed, unchanged. A handler panic is
// re-raised on the caller's goroutine once every handler has settled. Handler results are
// discarded.
//
// Publishing a message type with no handlers is not an error: observers receive a
// NoHandlerWarning and Publish returns nil.
func (m *Mediator) Publish(ctx context.Context, msg any) error {
	t := reflect.TypeOf(msg)

	ctx, span := m.tracer.Start(ctx, "mediator.publish",
		trace.WithAttributes(attribute.String(attrMessageType, typeName(t))))
	defer span.End()

	entries := m.reg.lookup(t)
	if len(entries) == 0 {
		m.noHandler(ctx, berr.NoHandlerWarning{Request: msg, TypeName: typeName(t)})
		return nil
	}

	var (
		g errgroup.Group
		p panicTrap
	)

	for _, e := range entries {
		g.Go(func() (err error) {
			defer p.capture()

			hctx, hspan := m.tracer.Start(ctx, "mediator.handle",
				trace.WithAttributes(attribute.String(attrHandlerType, e.key.String())))
			defer hspan.End()

			_, err = m.invoke(hctx, OpPublish, t, e, msg)
			if err != nil {
				hspan.RecordError(err)
				hspan.SetStatus(codes.Error, err.Error())
			}

			return err
		})
	}

	err := g.Wait()
	p.rethrow()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (m *Mediator) invoke(ctx context.Context, op Op, t reflect.Type, e entry, msg any) (any, error) {
	start := time.Now()
	res, err := e.invoke(ctx, msg)

	ev := DispatchEvent{
		Op:          op,
		MessageType: typeName(t),
		HandlerType: e.key.String(),
		Duration:    time.Since(start),
		Err:         err,
	}
	for _, o := range m.observers {
		o.HandlerSettled(ctx, ev)
	}

	return res, err
}

func (m *Mediator) noHandler(ctx context.Context, w berr.NoHandlerWarning) {
	trace.SpanFromContext(ctx).AddEvent("no handler",
		trace.WithAttributes(attribute.String(attrMessageType, w.TypeName)))

	for _, o := range m.observers {
		o.NoHandler(ctx, w)
	}
}

// panicTrap keeps the first panic raised by a publish handler.
type panicTrap struct {
	once  sync.Once
	value any
	set   bool
}

func (p *panicTrap) capture() {
	if r := recover(); r != nil {
		p.once.Do(func() {
			p.value = r
			p.set = true
		})
	}
}

func (p *panicTrap) rethrow() {
	if p.set {
		panic(p.value)
	}
}
