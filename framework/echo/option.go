package jwtecho

import (
	"github.com/labstack/echo/v4"

	"github.com/jwtgate/jwtgate"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig)

// WithErrorHandler sets a custom error handler. Its return value is
// returned from the middleware.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey sets a custom context key to store claims
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}

// WithTokenExtractor overrides the gate's extractor for this router only.
func WithTokenExtractor(extractor jwtgate.TokenExtractor) Option {
	return func(config *echoMiddlewareConfig) {
		config.tokenExtractor = extractor
	}
}
