package mediator

import (
	"context"
	"fmt"
	"reflect"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/contract/handler"
)

// Register binds handler type H to message type M. newHandler is called for every dispatch,
// so no handler state is shared between calls. Registering the same H for the same M twice
// is a no-op.
//
// M must be the concrete type messages are sent as: registering for an interface type
// never matches, since lookup uses the message's runtime type.
func Register[M any, R any, H handler.Handler[M, R]](m *Mediator, newHandler func() H) {
	m.register(reflect.TypeFor[M](), handlerKey{typ: reflect.TypeFor[H]()}, func(ctx context.Context, v any) (any, error) {
		msg, ok := v.(M)
		if !ok {
			return nil, fmt.Errorf("handle %T: %w", v, berr.ErrHandlerTypeMismatch)
		}

		return newHandler().Handle(ctx, msg)
	})
}

// RegisterType binds handler type H to message type M, building each instance from the type
// itself: the zero value for value types, a newly allocated value for pointer types.
func RegisterType[M any, R any, H handler.Handler[M, R]](m *Mediator) {
	Register[M, R](m, newInstance[H])
}

// RegisterNotification binds a handler that produces no result. Send through such a handler
// returns a nil result.
func RegisterNotification[M any, H handler.NotificationHandler[M]](m *Mediator, newHandler func() H) {
	m.register(reflect.TypeFor[M](), handlerKey{typ: reflect.TypeFor[H]()}, func(ctx context.Context, v any) (any, error) {
		msg, ok := v.(M)
		if !ok {
			return nil, fmt.Errorf("handle %T: %w", v, berr.ErrHandlerTypeMismatch)
		}

		return nil, newHandler().Handle(ctx, msg)
	})
}

// RegisterFunc binds fn to message type M. Every call adds a distinct handler.
func RegisterFunc[M any, R any](m *Mediator, fn func(ctx context.Context, msg M) (R, error)) {
	f := handler.Func[M, R](fn)

	m.register(reflect.TypeFor[M](), m.funcKey(reflect.TypeOf(f)), func(ctx context.Context, v any) (any, error) {
		msg, ok := v.(M)
		if !ok {
			return nil, fmt.Errorf("handle %T: %w", v, berr.ErrHandlerTypeMismatch)
		}

		return f.Handle(ctx, msg)
	})
}

// RegisterForwarder binds a bridge that hands messages of type M to f. The bridge is keyed by
// the concrete type of f, so one adapter type is registered at most once per message type.
func RegisterForwarder[M any](m *Mediator, f handler.Forwarder, opts handler.ForwardOptions) {
	m.register(reflect.TypeFor[M](), handlerKey{typ: reflect.TypeOf(f)}, func(ctx context.Context, v any) (any, error) {
		msg, ok := v.(M)
		if !ok {
			return nil, fmt.Errorf("forward %T: %w", v, berr.ErrHandlerTypeMismatch)
		}

		return nil, bridge[M]{fwd: f, opts: opts}.Handle(ctx, msg)
	})
}

// bridge is the per-dispatch handler wrapping a shared Forwarder.
type bridge[M any] struct {
	fwd  handler.Forwarder
	opts handler.ForwardOptions
}

func (b bridge[M]) Handle(ctx context.Context, msg M) error {
	if b.fwd == nil {
		return fmt.Errorf("forward %T: %w", msg, berr.ErrBridgeNotConfigured)
	}

	return b.fwd.Forward(ctx, msg, b.opts)
}

var _ handler.NotificationHandler[struct{}] = bridge[struct{}]{}

func newInstance[H any]() H {
	t := reflect.TypeFor[H]()
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(H)
	}

	var h H

	return h
}
