// Package core provides the framework-agnostic half of the gate: it turns an
// extracted token string into claims or a classified error, and owns the
// per-request identity slot in context.Context.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/jwtgate/jwtgate/signing"
)

// Validator defines the interface for JWT validation.
// Implementations should validate tokens, returning the validated claims.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (any, error)
}

// Logger defines an optional logging interface for the core middleware.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core is the framework-agnostic JWT validation engine.
// It is immutable after New and safe for concurrent use.
type Core struct {
	validator Validator
	logger    Logger
}

// CheckToken validates a JWT token string and returns the validated claims.
//
//   - An empty token returns ErrJWTMissing.
//   - A context that is already done returns a *ValidationError with
//     ErrorCodeRequestCanceled without calling the validator.
//   - Any validator failure returns a *ValidationError whose Code classifies it.
//
// The returned claims (any) should be type-asserted by the caller
// to the expected claims type (typically *validator.ValidatedClaims).
func (c *Core) CheckToken(ctx context.Context, token string) (any, error) {
	if token == "" {
		if c.logger != nil {
			c.logger.Debug("no token provided")
		}
		return nil, ErrJWTMissing
	}

	if err := ctx.Err(); err != nil {
		if c.logger != nil {
			c.logger.Debug("request canceled before token validation", "error", err)
		}
		return nil, NewValidationError(ErrorCodeRequestCanceled, "request canceled", err)
	}

	start := time.Now()
	claims, err := c.validator.ValidateToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		verr := classify(err)
		if c.logger != nil {
			c.logger.Warn("token validation failed", "code", verr.Code, "error", err, "duration", duration)
		}
		return nil, verr
	}

	if c.logger != nil {
		c.logger.Debug("token validated successfully", "duration", duration)
	}

	return claims, nil
}

func classify(err error) *ValidationError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	switch {
	case errors.Is(err, signing.ErrTokenMalformed):
		return NewValidationError(ErrorCodeTokenMalformed, "token is malformed", err)
	case errors.Is(err, signing.ErrTokenExpired):
		return NewValidationError(ErrorCodeTokenExpired, "token is expired", err)
	case errors.Is(err, signing.ErrTokenNotValidYet):
		return NewValidationError(ErrorCodeTokenNotYetValid, "token is not valid yet", err)
	case errors.Is(err, signing.ErrAlgorithmNotAllowed):
		return NewValidationError(ErrorCodeInvalidAlgorithm, "token algorithm is not allowed", err)
	case errors.Is(err, signing.ErrSignatureInvalid):
		return NewValidationError(ErrorCodeInvalidSignature, "token signature is invalid", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewValidationError(ErrorCodeRequestCanceled, "request canceled", err)
	default:
		return NewValidationError(ErrorCodeInvalidToken, "token is invalid", err)
	}
}
