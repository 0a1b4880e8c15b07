package inmemory

import (
	"context"
	"sync"

	"github.com/next-trace/scg-mediator/adapters/internal/wire"
	"github.com/next-trace/scg-mediator/contract/handler"
)

// Envelope is one forwarded message as a broker would have received it.
type Envelope struct {
	Subject string
	Message any
	Headers map[string]string
}

// Adapter is a thread-safe in-memory handler.Forwarder.
// It records forwarded messages for tests and examples.
type Adapter struct {
	mu        sync.Mutex
	forwarded []Envelope
}

// Ensure Adapter implements the forwarding contract.
var _ handler.Forwarder = (*Adapter)(nil)

// New creates a new in-memory adapter instance.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Forward(ctx context.Context, msg any, opts handler.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := Envelope{
		Subject: wire.Subject(msg, opts),
		Message: msg,
		Headers: wire.Headers(ctx, msg, opts, nil),
	}

	a.mu.Lock()
	a.forwarded = append(a.forwarded, env)
	a.mu.Unlock()

	return nil
}

// Forwarded returns a copy of everything recorded so far, in arrival order.
func (a *Adapter) Forwarded() []Envelope {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Envelope, len(a.forwarded))
	copy(out, a.forwarded)

	return out
}

// Reset drops all recordings.
func (a *Adapter) Reset() {
	a.mu.Lock()
	a.forwarded = nil
	a.mu.Unlock()
}
