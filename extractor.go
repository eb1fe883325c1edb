package jwtgate

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// TokenExtractor takes a request and returns the token it carries, or ""
// when there is none. Extractors never fail: anything that is not a usable
// token is reported as absent.
type TokenExtractor func(r *http.Request) string

// ExtractToken returns the bearer token from the Authorization header.
//
// The header must start with exactly "Bearer " (case-sensitive, one space).
// A missing header, any other scheme, or an empty remainder yields "".
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return authHeader[len(bearerPrefix):]
}

// AuthHeaderTokenExtractor is the default TokenExtractor.
var AuthHeaderTokenExtractor TokenExtractor = ExtractToken

// CookieTokenExtractor builds a TokenExtractor that reads the named cookie.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts
// the token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) string {
		return r.URL.Query().Get(param)
	}
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple
// TokenExtractors in order and returns the first non-empty token.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) string {
		for _, ex := range extractors {
			if token := ex(r); token != "" {
				return token
			}
		}
		return ""
	}
}
