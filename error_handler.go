package jwtgate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jwtgate/jwtgate/core"
)

var (
	// ErrJWTMissing is returned when no bearer token could be extracted.
	ErrJWTMissing = core.ErrJWTMissing

	// ErrJWTInvalid is returned when the token failed verification.
	ErrJWTInvalid = core.ErrJWTInvalid
)

// ErrorHandler is called instead of the next handler when a request is
// rejected. err satisfies errors.Is(err, ErrJWTMissing) or
// errors.Is(err, ErrJWTInvalid). A custom handler must write a response;
// the next handler is never called after it.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written on rejection.
type ErrorResponse struct {
	Message string `json:"message"`
}

// DefaultErrorHandler writes 401 Unauthorized with {"message": ...}. The
// message is MissingTokenMessage for a missing token and the configured
// error text for every verification failure, so clients cannot tell an
// expired token from a forged one.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: ErrorMessage(err)})
}

// ErrorMessage returns the client-facing text for a rejection error.
func ErrorMessage(err error) string {
	var invalid *invalidError
	switch {
	case errors.Is(err, ErrJWTMissing):
		return MissingTokenMessage
	case errors.As(err, &invalid):
		return invalid.message
	default:
		return DefaultErrorMessage
	}
}

// invalidError wraps a verification failure with ErrJWTInvalid and the
// configured response text. We do not expose this publicly because the
// interface methods of Is and Unwrap should give the user all they need.
type invalidError struct {
	message string
	details error
}

// Is allows the error to support equality to ErrJWTInvalid.
func (e *invalidError) Is(target error) bool {
	return target == ErrJWTInvalid
}

// Error returns a string representation of the error.
func (e *invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrJWTInvalid, e.details)
}

// Unwrap allows the error to support equality to the
// underlying error and not just ErrJWTInvalid.
func (e *invalidError) Unwrap() error {
	return e.details
}
