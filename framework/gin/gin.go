// Package jwtgin adapts a jwtgate.JWTMiddleware to gin.
package jwtgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwtgate/jwtgate"
	"github.com/jwtgate/jwtgate/core"
)

// DefaultClaimsKey is the gin context key claims are stored under.
const DefaultClaimsKey = "jwt"

var (
	ErrMissingClaims = errors.New("no JWT claims found in context")
	ErrInvalidClaims = errors.New("invalid JWT claims type")
)

// GinMiddlewareConfig holds the adapter settings.
type GinMiddlewareConfig struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
}

// NewGinMiddleware returns a gin.HandlerFunc that verifies the request with
// gate. On success the claims are stored both under the gin key and in the
// request context, so jwtgate.GetClaims(c.Request.Context()) works too. On
// failure the chain is aborted.
func NewGinMiddleware(gate *jwtgate.JWTMiddleware, opts ...Option) gin.HandlerFunc {
	config := &GinMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		claims, err := gate.Authenticate(c.Request)
		if err != nil {
			config.errorHandler(c, err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(core.SetClaims(c.Request.Context(), claims))
		c.Set(config.contextKey, claims)
		c.Next()
	}
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, jwtgate.ErrorResponse{
		Message: jwtgate.ErrorMessage(err),
	})
}

// GetClaims returns the claims stored by the middleware. An empty
// contextKey means DefaultClaimsKey.
func GetClaims(c *gin.Context, contextKey string) (*jwtgate.ValidatedClaims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	validatedClaims, ok := claims.(*jwtgate.ValidatedClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return validatedClaims, nil
}
