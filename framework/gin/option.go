package jwtgin

import (
	"github.com/gin-gonic/gin"
)

// Option defines a functional option for configuring the middleware
type Option func(*GinMiddlewareConfig)

// WithErrorHandler sets a custom error handler for the middleware. The
// handler must write the response; the chain is aborted afterwards.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *GinMiddlewareConfig) {
		if handler != nil {
			config.errorHandler = handler
		}
	}
}

// WithContextKey stores claims under key instead of DefaultClaimsKey.
func WithContextKey(key string) Option {
	return func(config *GinMiddlewareConfig) {
		if key != "" {
			config.contextKey = key
		}
	}
}
