package validator

import (
	"errors"
	"time"

	"github.com/jwtgate/jwtgate/signing"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithSecret sets the shared secret tokens are verified with.
// This is a required option.
func WithSecret(secret string) Option {
	return func(v *Validator) error {
		if secret == "" {
			return ErrSecretRequired
		}
		v.secret = []byte(secret)
		return nil
	}
}

// WithAlgorithms sets the algorithms a token's alg header may carry.
// This is a required option. Any listed algorithm is accepted.
func WithAlgorithms(algorithms ...signing.SignatureAlgorithm) Option {
	return func(v *Validator) error {
		if len(algorithms) == 0 {
			return ErrAlgorithmsRequired
		}
		for _, alg := range algorithms {
			if _, err := signing.ParseAlgorithm(string(alg)); err != nil {
				return err
			}
		}
		v.algorithms = append([]signing.SignatureAlgorithm(nil), algorithms...)
		return nil
	}
}

// WithPrimitive replaces the default golang-jwt primitive.
func WithPrimitive(p signing.Primitive) Option {
	return func(v *Validator) error {
		if p == nil {
			return ErrPrimitiveNil
		}
		v.primitive = p
		return nil
	}
}

// WithAllowedClockSkew sets the allowed clock skew for time-based claims.
//
// If not set, the default is 0 (no clock skew allowed).
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}
