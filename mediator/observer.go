package mediator

import (
	"context"
	"log/slog"
	"time"

	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// Op names the dispatch operation that invoked a handler.
type Op string

const (
	OpSend    Op = "send"
	OpPublish Op = "publish"
)

// DispatchEvent describes one settled handler invocation.
type DispatchEvent struct {
	Op          Op
	MessageType string
	HandlerType string
	Duration    time.Duration
	Err         error
}

// Observer receives dispatch diagnostics. Publish notifies observers from several
// goroutines at once, so implementations must be safe for concurrent use.
type Observer interface {
	// NoHandler is called once per Publish of a message type nothing is registered for.
	NoHandler(ctx context.Context, w berr.NoHandlerWarning)
	// HandlerSettled is called after each handler returns (not when it panics).
	HandlerSettled(ctx context.Context, e DispatchEvent)
}

// LogObserver writes diagnostics to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an Observer logging to l, or to slog.Default when l is nil.
func NewLogObserver(l *slog.Logger) *LogObserver {
	if l == nil {
		l = slog.Default()
	}

	return &LogObserver{logger: l}
}

func (o *LogObserver) NoHandler(ctx context.Context, w berr.NoHandlerWarning) {
	o.logger.WarnContext(ctx, w.String(), "message_type", w.TypeName)
}

func (o *LogObserver) HandlerSettled(ctx context.Context, e DispatchEvent) {
	if !o.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := []any{
		"op", string(e.Op),
		"message_type", e.MessageType,
		"handler_type", e.HandlerType,
		"duration", e.Duration,
	}
	if e.Err != nil {
		attrs = append(attrs, "err", e.Err)
	}

	o.logger.DebugContext(ctx, "handler settled", attrs...)
}

var _ Observer = (*LogObserver)(nil)
