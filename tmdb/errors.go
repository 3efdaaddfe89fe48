package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
	// ErrInvalidRequest indicates the request URL could not be built
	ErrInvalidRequest = errors.New("invalid request URL")
	// ErrTransport indicates a connectivity or server failure
	ErrTransport = errors.New("network request failed")
	// ErrDecodeFailure indicates the response body had an unexpected shape
	ErrDecodeFailure = errors.New("failed to decode response")
)

// NetworkError is returned by every catalog operation
type NetworkError struct {
	// Kind is one of ErrInvalidRequest, ErrTransport or ErrDecodeFailure
	Kind       error
	Op         string
	StatusCode int
	// Message is the status_message reported by TMDB, if any
	Message string
	Err     error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.StatusCode != 0 && e.Message != "":
		msg = fmt.Sprintf("%s: status %d: %s", msg, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	case e.Err != nil:
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As
func (e *NetworkError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsNotFound checks if the error indicates a not found response
func (e *NetworkError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *NetworkError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newError(kind error, op string, err error) *NetworkError {
	return &NetworkError{Kind: kind, Op: op, Err: err}
}
