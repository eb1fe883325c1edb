// Package jwtecho adapts a jwtgate.JWTMiddleware to echo.
package jwtecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jwtgate/jwtgate"
	"github.com/jwtgate/jwtgate/core"
)

// DefaultClaimsKey is the echo context key claims are stored under.
const DefaultClaimsKey = "jwt"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler   func(echo.Context, error) error
	contextKey     string
	tokenExtractor jwtgate.TokenExtractor
}

// NewEchoMiddleware returns an echo.MiddlewareFunc that verifies the request
// with gate. Claims are stored under the echo key and in the request
// context; on failure next is not called.
func NewEchoMiddleware(gate *jwtgate.JWTMiddleware, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()

			var (
				claims *jwtgate.ValidatedClaims
				err    error
			)
			if config.tokenExtractor != nil {
				claims, err = gate.AuthenticateToken(r.Context(), config.tokenExtractor(r))
			} else {
				claims, err = gate.Authenticate(r)
			}
			if err != nil {
				return config.errorHandler(c, err)
			}

			c.SetRequest(r.WithContext(core.SetClaims(r.Context(), claims)))
			c.Set(config.contextKey, claims)
			return next(c)
		}
	}
}

func defaultEchoErrorHandler(c echo.Context, err error) error {
	return c.JSON(http.StatusUnauthorized, jwtgate.ErrorResponse{
		Message: jwtgate.ErrorMessage(err),
	})
}

// GetClaims returns the claims stored by the middleware. An empty
// contextKey means DefaultClaimsKey.
func GetClaims(c echo.Context, contextKey string) (*jwtgate.ValidatedClaims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims := c.Get(contextKey)
	if claims == nil {
		return nil, false
	}

	validatedClaims, ok := claims.(*jwtgate.ValidatedClaims)
	return validatedClaims, ok
}
