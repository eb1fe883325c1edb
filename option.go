package jwtgate

import (
	"errors"
	"net/http"
	"time"

	"github.com/jwtgate/jwtgate/signing"
)

// Option configures the JWTMiddleware.
// Returns error for validation failures.
type Option func(*JWTMiddleware) error

// WithValidateOnOptions sets whether OPTIONS requests should have their JWT validated.
//
// Default: true (OPTIONS requests are validated)
func WithValidateOnOptions(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when a request is rejected.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *JWTMiddleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the JWT from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *JWTMiddleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionUrls configures URL patterns to exclude from JWT validation.
// URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *JWTMiddleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger for the middleware.
// The logger will be used throughout the validation flow in both middleware and core.
//
//	middleware, err := jwtgate.New(secret, nil,
//	    jwtgate.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(m *JWTMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink. Default: NoopMetrics.
func WithMetrics(metrics Metrics) Option {
	return func(m *JWTMiddleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer. Default: NoopTracer.
func WithTracer(tracer Tracer) Option {
	return func(m *JWTMiddleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// WithPrimitive sets the signing primitive used for verification.
//
// Default: golangjwt.New()
func WithPrimitive(p signing.Primitive) Option {
	return func(m *JWTMiddleware) error {
		if p == nil {
			return ErrPrimitiveNil
		}
		m.primitive = p
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied to exp, nbf and iat.
//
// Default: 0
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(m *JWTMiddleware) error {
		if skew < 0 {
			return ErrClockSkewNegative
		}
		m.allowedClockSkew = skew
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil  = errors.New("tokenExtractor cannot be nil")
	ErrExclusionUrlsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
	ErrPrimitiveNil       = errors.New("signing primitive cannot be nil")
	ErrClockSkewNegative  = errors.New("clock skew cannot be negative")
)
