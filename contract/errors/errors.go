package errors

import "fmt"

// Error codes for the mediator contracts. Keep stable; used across adapters and the mediator.
const (
	ErrCodeHandlerNotFound     = "mediator.handler_not_found"
	ErrCodeHandlerTypeMismatch = "mediator.handler_type_mismatch"
	ErrCodeForwardFailed       = "mediator.forward_failed"
	ErrCodeSerializationFailed = "mediator.serialization_failed"
	ErrCodeBridgeNotConfigured = "mediator.bridge_not_configured"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrHandlerNotFound     = Code(ErrCodeHandlerNotFound)
	ErrHandlerTypeMismatch = Code(ErrCodeHandlerTypeMismatch)
	ErrForwardFailed       = Code(ErrCodeForwardFailed)
	ErrSerializationFailed = Code(ErrCodeSerializationFailed)
	ErrBridgeNotConfigured = Code(ErrCodeBridgeNotConfigured)
)

// UnknownHandlerError is returned by Send when no handler is registered for the
// exact runtime type of the request. It matches ErrHandlerNotFound with errors.Is.
type UnknownHandlerError struct {
	Request  any
	TypeName string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("Unable to locate a registered handler for request '%v' (type: %s)", e.Request, e.TypeName)
}

func (e *UnknownHandlerError) Unwrap() error { return ErrHandlerNotFound }

// NoHandlerWarning is the non-fatal diagnostic emitted by Publish when nothing is
// registered for a message type. It is not an error: Publish still succeeds.
type NoHandlerWarning struct {
	Request  any
	TypeName string
}

func (w NoHandlerWarning) String() string {
	return fmt.Sprintf("No handler defined for request type '%s'", w.TypeName)
}
