package validator

import (
	"fmt"

	"github.com/jwtgate/jwtgate/signing"
)

// ClaimSet is the caller-defined payload embedded in a token.
// No keys are required at this layer.
type ClaimSet map[string]string

// ValidatedClaims is the struct that will be inserted into
// the context for the user.
type ValidatedClaims struct {
	// Claims holds every string-valued claim the caller put in the token,
	// registered ones such as sub or iss included. The time claims stamped
	// by the signer (exp, iat, nbf) are only in RegisteredClaims and Raw.
	Claims           ClaimSet
	RegisteredClaims RegisteredClaims
	// Raw is the full decoded payload, numeric dates as unix seconds.
	Raw map[string]any
}

// RegisteredClaims represents public claim
// values (as specified in RFC 7519).
type RegisteredClaims struct {
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub,omitempty"`
	Audience  []string `json:"aud,omitempty"`
	Expiry    int64    `json:"exp,omitempty"`
	NotBefore int64    `json:"nbf,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
	ID        string   `json:"jti,omitempty"`
}

// Get returns the named claim from Claims, or "" when absent.
func (c *ValidatedClaims) Get(name string) string {
	if c == nil {
		return ""
	}
	return c.Claims[name]
}

var timeClaims = map[string]bool{
	signing.ClaimExpiry:    true,
	signing.ClaimNotBefore: true,
	signing.ClaimIssuedAt:  true,
}

func newValidatedClaims(raw map[string]any) *ValidatedClaims {
	claims := &ValidatedClaims{
		Claims: make(ClaimSet, len(raw)),
		Raw:    raw,
	}

	for k, v := range raw {
		if timeClaims[k] {
			continue
		}
		if s, ok := v.(string); ok {
			claims.Claims[k] = s
		}
	}

	rc := &claims.RegisteredClaims
	rc.Issuer, _ = raw[signing.ClaimIssuer].(string)
	rc.Subject, _ = raw[signing.ClaimSubject].(string)
	rc.ID, _ = raw[signing.ClaimID].(string)
	rc.Expiry, _ = raw[signing.ClaimExpiry].(int64)
	rc.NotBefore, _ = raw[signing.ClaimNotBefore].(int64)
	rc.IssuedAt, _ = raw[signing.ClaimIssuedAt].(int64)
	rc.Audience = audience(raw[signing.ClaimAudience])

	return claims
}

func audience(v any) []string {
	switch aud := v.(type) {
	case string:
		return []string{aud}
	case []string:
		return aud
	case []any:
		out := make([]string, 0, len(aud))
		for _, a := range aud {
			out = append(out, fmt.Sprint(a))
		}
		return out
	default:
		return nil
	}
}
