package client

import (
	"errors"
	"fmt"

	"github.com/kroma-labs/zswag-go/openapi"
)

// ErrUnknownOperation reports a method name the service config does not
// declare.
var ErrUnknownOperation = errors.New("unknown operation")

// ParameterError reports a parameter whose value could not be extracted
// from the request object graph or encoded.
type ParameterError struct {
	// Operation is the service method being called.
	Operation string

	// Parameter is the declared parameter name.
	Parameter string

	// Field is the request field path the parameter draws from.
	Field string

	// Err is the underlying extraction or encoding failure.
	Err error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("operation %q: parameter %q (field %q): %v",
		e.Operation, e.Parameter, e.Field, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// SecurityError reports that no security alternative of an operation is
// satisfied by the destination's effective configuration. The call is
// aborted before anything is sent.
type SecurityError struct {
	// Operation is the service method being called.
	Operation string

	// Alternatives is the unsatisfied requirement.
	Alternatives openapi.SecurityAlternatives
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("operation %q: no security alternative of %v satisfied by destination configuration",
		e.Operation, [][]string(e.Alternatives))
}

// HTTPError reports a response with an error status. The body is still
// available for diagnosis.
type HTTPError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the HTTP status line text.
	Status string

	// Body is the raw response body.
	Body []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %d %s", e.StatusCode, e.Status)
}
