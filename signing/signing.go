package signing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// Signature algorithms
const (
	EdDSA = SignatureAlgorithm("EdDSA")
	HS256 = SignatureAlgorithm("HS256") // HMAC using SHA-256
	HS384 = SignatureAlgorithm("HS384") // HMAC using SHA-384
	HS512 = SignatureAlgorithm("HS512") // HMAC using SHA-512
	RS256 = SignatureAlgorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = SignatureAlgorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = SignatureAlgorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
	ES256 = SignatureAlgorithm("ES256") // ECDSA using P-256 and SHA-256
	ES384 = SignatureAlgorithm("ES384") // ECDSA using P-384 and SHA-384
	ES512 = SignatureAlgorithm("ES512") // ECDSA using P-521 and SHA-512
	PS256 = SignatureAlgorithm("PS256") // RSASSA-PSS using SHA256 and MGF1-SHA256
	PS384 = SignatureAlgorithm("PS384") // RSASSA-PSS using SHA384 and MGF1-SHA384
	PS512 = SignatureAlgorithm("PS512") // RSASSA-PSS using SHA512 and MGF1-SHA512
)

// SignatureAlgorithm is a JWS "alg" header value.
type SignatureAlgorithm string

var knownAlgorithms = map[SignatureAlgorithm]bool{
	EdDSA: true,
	HS256: true,
	HS384: true,
	HS512: true,
	RS256: true,
	RS384: true,
	RS512: true,
	ES256: true,
	ES384: true,
	ES512: true,
	PS256: true,
	PS384: true,
	PS512: true,
}

// Registered claim names the primitives manage themselves.
const (
	ClaimExpiry    = "exp"
	ClaimIssuedAt  = "iat"
	ClaimNotBefore = "nbf"
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
	ClaimID        = "jti"
)

// Failure classes. Primitives wrap every error they return with exactly one
// of these so callers can classify with errors.Is.
var (
	ErrTokenMalformed       = errors.New("token is malformed")
	ErrTokenExpired         = errors.New("token is expired")
	ErrTokenNotValidYet     = errors.New("token is not valid yet")
	ErrAlgorithmNotAllowed  = errors.New("token signing algorithm is not allowed")
	ErrSignatureInvalid     = errors.New("token signature is invalid")
	ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")
	ErrReservedClaim        = errors.New("claim is reserved")
	ErrInvalidExpiry        = errors.New("invalid expiry")
)

// SignOptions controls a single Sign call.
type SignOptions struct {
	Algorithm SignatureAlgorithm
	// ExpiresIn is added to IssuedAt to form exp, which is always set.
	// Zero or negative values produce a token that is already expired.
	ExpiresIn time.Duration
	// IssuedAt defaults to time.Now when zero.
	IssuedAt time.Time
}

// VerifyOptions controls a single Verify call.
type VerifyOptions struct {
	// Algorithms is the allow-list checked against the token's alg header.
	Algorithms []SignatureAlgorithm
	// Leeway is the tolerance applied to exp, nbf and iat.
	Leeway time.Duration
}

// Primitive is a JWS sign/verify implementation keyed by a shared secret.
//
// Verify returns the decoded payload with numeric dates as int64 unix seconds.
type Primitive interface {
	Sign(ctx context.Context, claims map[string]any, key []byte, opts SignOptions) (string, error)
	Verify(ctx context.Context, token string, key []byte, opts VerifyOptions) (map[string]any, error)
}

// ParseAlgorithm converts a configured algorithm name into a SignatureAlgorithm.
// Names are case-sensitive, as in the JWS "alg" header.
func ParseAlgorithm(name string) (SignatureAlgorithm, error) {
	alg := SignatureAlgorithm(name)
	if !knownAlgorithms[alg] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return alg, nil
}

// ParseAlgorithms converts every name with ParseAlgorithm.
func ParseAlgorithms(names []string) ([]SignatureAlgorithm, error) {
	algs := make([]SignatureAlgorithm, 0, len(names))
	for _, name := range names {
		alg, err := ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algs = append(algs, alg)
	}
	return algs, nil
}

// IsHMAC reports whether alg signs with a shared secret.
func IsHMAC(alg SignatureAlgorithm) bool {
	return alg == HS256 || alg == HS384 || alg == HS512
}

// Allowed reports whether alg is in the allow-list.
func Allowed(alg string, allowed []SignatureAlgorithm) bool {
	return slices.Contains(allowed, SignatureAlgorithm(alg))
}

// CheckReserved rejects claim sets that try to set the time claims a
// primitive stamps itself.
func CheckReserved(claims map[string]any) error {
	for _, name := range []string{ClaimExpiry, ClaimIssuedAt, ClaimNotBefore} {
		if _, ok := claims[name]; ok {
			return fmt.Errorf("%w: %q is set by the signer", ErrReservedClaim, name)
		}
	}
	return nil
}

// ParseExpiry parses an expiry such as "1h", "90m", "3600" (seconds), "2d",
// "1w" or "1d12h". A leading minus yields a negative duration. Zero is
// rejected: every issued token carries an exp claim.
func ParseExpiry(s string) (time.Duration, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidExpiry)
	}

	var d time.Duration
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		d, err = str2duration.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrInvalidExpiry, s, err)
		}
	}

	if d == 0 {
		return 0, fmt.Errorf("%w: %q is zero", ErrInvalidExpiry, s)
	}
	return d, nil
}

// NormalizeClaims returns a copy of claims with exp, iat and nbf converted to
// int64 unix seconds, whatever numeric or time representation the decoder used.
func NormalizeClaims(claims map[string]any) map[string]any {
	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	for _, name := range []string{ClaimExpiry, ClaimIssuedAt, ClaimNotBefore} {
		v, ok := out[name]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			out[name] = int64(n)
		case int:
			out[name] = int64(n)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				out[name] = i
			}
		case time.Time:
			out[name] = n.Unix()
		}
	}
	return out
}
