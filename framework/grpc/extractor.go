package jwtgrpc

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor extracts a bearer token from an incoming gRPC context.
// An empty result means no token was supplied.
type TokenExtractor func(ctx context.Context) string

const bearerPrefix = "Bearer "

// MetadataTokenExtractor reads the first "authorization" metadata value and
// returns what follows the case-sensitive "Bearer " prefix, mirroring
// jwtgate.ExtractToken for HTTP.
//
// gRPC lowercases incoming metadata keys, so only "authorization" is checked.
func MetadataTokenExtractor(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}

	token, found := strings.CutPrefix(values[0], bearerPrefix)
	if !found {
		return ""
	}
	return token
}

// MetadataFieldTokenExtractor returns the raw value of a metadata field, for
// clients that send the token without a scheme.
func MetadataFieldTokenExtractor(field string) TokenExtractor {
	key := strings.ToLower(field)
	return func(ctx context.Context) string {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return ""
		}
		values := md.Get(key)
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}
}

// MultiTokenExtractor returns the first non-empty token found by extractors.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(ctx context.Context) string {
		for _, ex := range extractors {
			if token := ex(ctx); token != "" {
				return token
			}
		}
		return ""
	}
}
