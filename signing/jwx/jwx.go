// Package jwx implements signing.Primitive on top of
// github.com/lestrrat-go/jwx/v2.
package jwx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/jwtgate/jwtgate/signing"
)

// Primitive signs and verifies HMAC tokens with jwx.
type Primitive struct{}

// New returns a jwx backed primitive.
func New() *Primitive {
	return &Primitive{}
}

var _ signing.Primitive = (*Primitive)(nil)

// Sign stamps iat and exp and signs claims with opts.Algorithm.
func (p *Primitive) Sign(_ context.Context, claims map[string]any, key []byte, opts signing.SignOptions) (string, error) {
	if err := signing.CheckReserved(claims); err != nil {
		return "", err
	}
	if !signing.IsHMAC(opts.Algorithm) {
		return "", fmt.Errorf("%w: %q cannot sign with a shared secret", signing.ErrUnsupportedAlgorithm, opts.Algorithm)
	}

	now := opts.IssuedAt
	if now.IsZero() {
		now = time.Now()
	}

	token := jwt.New()
	for k, v := range claims {
		if err := token.Set(k, v); err != nil {
			return "", fmt.Errorf("could not set claim %q: %w", k, err)
		}
	}
	if err := token.Set(jwt.IssuedAtKey, now); err != nil {
		return "", fmt.Errorf("could not set claim %q: %w", jwt.IssuedAtKey, err)
	}
	if err := token.Set(jwt.ExpirationKey, now.Add(opts.ExpiresIn)); err != nil {
		return "", fmt.Errorf("could not set claim %q: %w", jwt.ExpirationKey, err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.SignatureAlgorithm(opts.Algorithm), key))
	if err != nil {
		return "", fmt.Errorf("could not sign the token: %w", err)
	}
	return string(signed), nil
}

// Verify reads the alg header, rejects it unless it is in opts.Algorithms,
// then verifies the signature with that algorithm and validates time claims.
func (p *Primitive) Verify(ctx context.Context, tokenString string, key []byte, opts signing.VerifyOptions) (map[string]any, error) {
	msg, err := jws.Parse([]byte(tokenString))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signing.ErrTokenMalformed, err)
	}
	sigs := msg.Signatures()
	if len(sigs) != 1 {
		return nil, fmt.Errorf("%w: expected one signature, got %d", signing.ErrTokenMalformed, len(sigs))
	}

	alg := sigs[0].ProtectedHeaders().Algorithm()
	if !signing.Allowed(alg.String(), opts.Algorithms) {
		return nil, fmt.Errorf("%w: %q", signing.ErrAlgorithmNotAllowed, alg)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(alg, key),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(opts.Leeway),
	)
	if err != nil {
		return nil, classify(err)
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signing.ErrTokenMalformed, err)
	}
	return signing.NormalizeClaims(claims), nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired()):
		return fmt.Errorf("%w: %w", signing.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotYetValid()), errors.Is(err, jwt.ErrInvalidIssuedAt()):
		return fmt.Errorf("%w: %w", signing.ErrTokenNotValidYet, err)
	default:
		return fmt.Errorf("%w: %w", signing.ErrSignatureInvalid, err)
	}
}
