package errors_test

import (
	"errors"
	"strings"
	"testing"

	berr "github.com/next-trace/scg-mediator/contract/errors"
)

func TestCodeAndVars(t *testing.T) {
	e := berr.Code(berr.ErrCodeForwardFailed)
	if e.Error() != berr.ErrCodeForwardFailed {
		t.Fatalf("unexpected error string: %s", e.Error())
	}

	// exported variables must carry their codes
	tests := []struct {
		err  error
		code string
	}{
		{berr.ErrHandlerNotFound, berr.ErrCodeHandlerNotFound},
		{berr.ErrHandlerTypeMismatch, berr.ErrCodeHandlerTypeMismatch},
		{berr.ErrForwardFailed, berr.ErrCodeForwardFailed},
		{berr.ErrSerializationFailed, berr.ErrCodeSerializationFailed},
		{berr.ErrBridgeNotConfigured, berr.ErrCodeBridgeNotConfigured},
	}

	for _, tc := range tests {
		if !errors.Is(tc.err, berr.Code(tc.code)) {
			t.Fatalf("expected %s to be %s", tc.err, tc.code)
		}
	}
}

type ping string

func TestUnknownHandlerError(t *testing.T) {
	var err error = &berr.UnknownHandlerError{Request: ping("Ping"), TypeName: "ping"}

	want := "Unable to locate a registered handler for request 'Ping' (type: ping)"
	if err.Error() != want {
		t.Fatalf("message=%q want %q", err.Error(), want)
	}

	if !errors.Is(err, berr.ErrHandlerNotFound) {
		t.Fatalf("want ErrHandlerNotFound, got %v", err)
	}

	var uh *berr.UnknownHandlerError
	if !errors.As(err, &uh) || uh.TypeName != "ping" {
		t.Fatalf("errors.As failed: %+v", uh)
	}
}

func TestNoHandlerWarning_String(t *testing.T) {
	w := berr.NoHandlerWarning{TypeName: "Zing"}
	if got := w.String(); got != "No handler defined for request type 'Zing'" {
		t.Fatalf("unexpected warning text: %s", got)
	}

	if !strings.Contains(w.String(), "Zing") {
		t.Fatalf("warning must name the type")
	}
}
