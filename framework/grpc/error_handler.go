package jwtgrpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jwtgate/jwtgate"
)

// ErrorHandler converts a rejection from the gate into the error returned
// to the client.
type ErrorHandler func(error) error

// DefaultErrorHandler returns codes.Unauthenticated carrying the same text
// the HTTP gate would put in its JSON body.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(codes.Unauthenticated, jwtgate.ErrorMessage(err))
}
