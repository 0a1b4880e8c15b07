// Package wire holds the encoding rules shared by broker bridges: subject resolution,
// standard headers and the JSON body.
package wire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/google/uuid"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/contract/handler"
)

const (
	// SubjectPrefix is prepended to the type name when neither the options nor the message
	// choose a subject.
	SubjectPrefix = "mediator."

	HeaderMessageID   = "x-message-id"
	HeaderMessageType = "x-message-type"
	HeaderKey         = "key"
)

// TypeName returns the name of msg's type with pointers stripped, or its literal form for
// unnamed types.
func TypeName(msg any) string {
	t := reflect.TypeOf(msg)
	if t == nil {
		return "<nil>"
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if name := t.Name(); name != "" {
		return name
	}

	return t.String()
}

// Subject picks opts.Subject, then the message's own Topic(), then SubjectPrefix+TypeName.
func Subject(msg any, opts handler.ForwardOptions) string {
	if opts.Subject != "" {
		return opts.Subject
	}

	if t, ok := msg.(handler.Topical); ok && t.Topic() != "" {
		return t.Topic()
	}

	return SubjectPrefix + TypeName(msg)
}

// Headers copies opts.Headers and stamps a fresh message id and the message type.
// Caller-provided values win. The propagator, if any, injects trace context last.
func Headers(ctx context.Context, msg any, opts handler.ForwardOptions, hp handler.HeaderPropagator) map[string]string {
	h := make(map[string]string, len(opts.Headers)+4)
	h[HeaderMessageID] = uuid.NewString()
	h[HeaderMessageType] = TypeName(msg)

	if opts.Key != "" {
		h[HeaderKey] = opts.Key
	}

	maps.Copy(h, opts.Headers)

	if hp != nil {
		hp.Inject(ctx, h)
	}

	return h
}

// Encode marshals msg as JSON, wrapping failures with ErrSerializationFailed.
func Encode(label string, msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%s serialize: %w", label, errors.Join(berr.ErrSerializationFailed, err))
	}

	return b, nil
}

// Ready reports context cancellation first, then a missing transport.
func Ready(ctx context.Context, label string, configured bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !configured {
		return fmt.Errorf("%s: %w", label, berr.ErrBridgeNotConfigured)
	}

	return nil
}

// TransportError passes context errors through unchanged and joins anything else with
// ErrForwardFailed.
func TransportError(label string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%s: %w", label, errors.Join(berr.ErrForwardFailed, err))
}
