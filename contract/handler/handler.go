package handler

import "context"

// Handler handles messages of type M and produces a result of type R.
// A fresh instance is built by its factory for every dispatch, so implementations
// do not need to be safe for concurrent use unless they share state explicitly.
type Handler[M any, R any] interface {
	Handle(ctx context.Context, m M) (R, error)
}

// NotificationHandler handles messages of type M without producing a result.
type NotificationHandler[M any] interface {
	Handle(ctx context.Context, m M) error
}

// Func adapts a plain function to Handler.
type Func[M any, R any] func(ctx context.Context, m M) (R, error)

// Handle calls f(ctx, m).
func (f Func[M, R]) Handle(ctx context.Context, m M) (R, error) { return f(ctx, m) }
