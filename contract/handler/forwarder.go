package handler

import "context"

// Forwarder hands a message over to something outside the process (a broker, a recorder).
// Broker adapters implement it; the mediator registers them as ordinary handlers.
type Forwarder interface {
	Forward(ctx context.Context, msg any, opts ForwardOptions) error
}

// ForwardOptions controls how a message is forwarded.
type ForwardOptions struct {
	// Subject overrides the subject/topic/routing key derived from the message.
	Subject string
	Key     string
	Headers map[string]string
}
