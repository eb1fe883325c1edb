// Package golangjwt implements signing.Primitive on top of
// github.com/golang-jwt/jwt/v5.
package golangjwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jwtgate/jwtgate/signing"
)

// Primitive signs and verifies HMAC tokens with golang-jwt.
// The zero value is ready to use.
type Primitive struct{}

// New returns a golang-jwt backed primitive.
func New() *Primitive {
	return &Primitive{}
}

var _ signing.Primitive = (*Primitive)(nil)

// Sign stamps iat and exp on a copy of claims and signs it with opts.Algorithm.
func (p *Primitive) Sign(_ context.Context, claims map[string]any, key []byte, opts signing.SignOptions) (string, error) {
	if err := signing.CheckReserved(claims); err != nil {
		return "", err
	}

	method, ok := jwt.GetSigningMethod(string(opts.Algorithm)).(*jwt.SigningMethodHMAC)
	if !ok || !signing.IsHMAC(opts.Algorithm) {
		return "", fmt.Errorf("%w: %q cannot sign with a shared secret", signing.ErrUnsupportedAlgorithm, opts.Algorithm)
	}

	now := opts.IssuedAt
	if now.IsZero() {
		now = time.Now()
	}

	mapClaims := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims[signing.ClaimIssuedAt] = now.Unix()
	mapClaims[signing.ClaimExpiry] = now.Add(opts.ExpiresIn).Unix()

	token, err := jwt.NewWithClaims(method, mapClaims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("could not sign the token: %w", err)
	}
	return token, nil
}

// Verify parses token, checks its alg header against opts.Algorithms and
// validates the signature and time claims.
func (p *Primitive) Verify(_ context.Context, tokenString string, key []byte, opts signing.VerifyOptions) (map[string]any, error) {
	validMethods := make([]string, 0, len(opts.Algorithms))
	for _, alg := range opts.Algorithms {
		validMethods = append(validMethods, string(alg))
	}

	token, err := jwt.Parse(
		tokenString,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods(validMethods),
		jwt.WithLeeway(opts.Leeway),
	)
	if err != nil {
		return nil, classify(token, err, opts.Algorithms)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type %T", signing.ErrTokenMalformed, token.Claims)
	}
	return signing.NormalizeClaims(claims), nil
}

func classify(token *jwt.Token, err error, allowed []signing.SignatureAlgorithm) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", signing.ErrTokenMalformed, err)
	case token != nil && !headerAllowed(token, allowed):
		return fmt.Errorf("%w: %q", signing.ErrAlgorithmNotAllowed, token.Header["alg"])
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", signing.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %w", signing.ErrTokenNotValidYet, err)
	default:
		return fmt.Errorf("%w: %w", signing.ErrSignatureInvalid, err)
	}
}

func headerAllowed(token *jwt.Token, allowed []signing.SignatureAlgorithm) bool {
	alg, _ := token.Header["alg"].(string)
	return signing.Allowed(alg, allowed)
}
