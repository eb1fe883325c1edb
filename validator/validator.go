package validator

import (
	"context"
	"errors"
	"time"

	"github.com/jwtgate/jwtgate/signing"
	"github.com/jwtgate/jwtgate/signing/golangjwt"
)

// Re-exported so callers configuring a validator need a single import.
const (
	HS256 = signing.HS256
	HS384 = signing.HS384
	HS512 = signing.HS512
	RS256 = signing.RS256
)

// Sentinel errors for configuration validation.
var (
	ErrSecretRequired     = errors.New("secret is required but was empty")
	ErrAlgorithmsRequired = errors.New("at least one signature algorithm is required")
	ErrPrimitiveNil       = errors.New("signing primitive cannot be nil")
)

// Validator verifies shared-secret tokens against an algorithm allow-list.
// It is immutable after New and safe for concurrent use.
type Validator struct {
	secret           []byte                       // Required.
	algorithms       []signing.SignatureAlgorithm // Required.
	primitive        signing.Primitive            // Optional.
	allowedClockSkew time.Duration                // Optional.
}

// New sets up a new Validator. WithSecret and WithAlgorithms are required.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithSecret("s3cret"),
//	    validator.WithAlgorithms(validator.HS256),
//	)
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		primitive: golangjwt.New(),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	if len(v.secret) == 0 {
		return nil, ErrSecretRequired
	}
	if len(v.algorithms) == 0 {
		return nil, ErrAlgorithmsRequired
	}

	return v, nil
}

// Algorithms returns a copy of the allow-list.
func (v *Validator) Algorithms() []signing.SignatureAlgorithm {
	return append([]signing.SignatureAlgorithm(nil), v.algorithms...)
}

// ValidateToken verifies tokenString and returns *ValidatedClaims.
// Errors wrap one of the signing failure classes.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (any, error) {
	raw, err := v.primitive.Verify(ctx, tokenString, v.secret, signing.VerifyOptions{
		Algorithms: v.algorithms,
		Leeway:     v.allowedClockSkew,
	})
	if err != nil {
		return nil, err
	}
	return newValidatedClaims(raw), nil
}
