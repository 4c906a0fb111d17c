package recagent

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotAuthenticated is returned when an authenticated call is made
	// while no credential is held. The request is never dispatched.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrCredentialRejected is returned when the server answers 401 to a
	// credentialed request. The session has already been cleared and the
	// redirect to the login route issued by the time the caller sees it.
	ErrCredentialRejected = errors.New("credential rejected")
)

// RequestError is a 4xx response other than 401: malformed input, a
// conflicting registration, an expired reset token. It carries the server's
// message and causes no session mutation.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, e.Message)
}

// ServerError is a 5xx response.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.Status, http.StatusText(e.Status))
}

// TransportError means no usable response was reached: connection failure,
// timeout, context cancellation, or an undecodable success body.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsAuthError reports whether err belongs to the centrally-handled auth
// category. Auth errors are never shown to the user as raw text; the
// session clear and redirect have already happened.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrCredentialRejected)
}
