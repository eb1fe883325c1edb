package jwtgate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jwtgate/jwtgate/core"
	"github.com/jwtgate/jwtgate/signing"
	"github.com/jwtgate/jwtgate/validator"
)

// ClaimSet is the caller-defined payload embedded in a token.
type ClaimSet = validator.ClaimSet

// ValidatedClaims is what the gate stores in the request context.
type ValidatedClaims = validator.ValidatedClaims

// ErrSecretEmpty is returned when New or GenerateToken get an empty secret.
var ErrSecretEmpty = errors.New("secret key cannot be empty")

// JWTMiddleware is the verification gate. It is built once per secret and
// configuration and is safe for concurrent use by any number of requests.
type JWTMiddleware struct {
	core                *core.Core
	config              resolvedConfig
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer

	// Temporary fields used during construction
	primitive        signing.Primitive
	allowedClockSkew time.Duration
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should be excluded from JWT validation.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs the gate for secretKey. cfg is merged over DefaultConfig
// and may be nil.
//
// Example:
//
//	gate, err := jwtgate.New(os.Getenv("JWT_SECRET"), &jwtgate.Config{
//	    Messages:   jwtgate.Messages{Error: "Session expired, please sign in"},
//	    Algorithms: []string{"HS256", "HS512"},
//	}, jwtgate.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
//	http.Handle("/api/", gate.CheckJWT(apiHandler))
func New(secretKey string, cfg *Config, opts ...Option) (*JWTMiddleware, error) {
	if secretKey == "" {
		return nil, ErrSecretEmpty
	}

	resolved, err := resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", err)
	}

	m := &JWTMiddleware{
		config:            resolved,
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.applyDefaults()

	if err := m.createCore(secretKey); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return m, nil
}

// applyDefaults sets default values for optional fields not set by options
func (m *JWTMiddleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}
	if m.metrics == nil {
		m.metrics = &NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = &NoopTracer{}
	}
}

// createCore builds the validator and the core.Core around it. The secret
// lives only inside the validator from here on.
func (m *JWTMiddleware) createCore(secretKey string) error {
	validatorOpts := []validator.Option{
		validator.WithSecret(secretKey),
		validator.WithAlgorithms(m.config.algorithms...),
		validator.WithAllowedClockSkew(m.allowedClockSkew),
	}
	if m.primitive != nil {
		validatorOpts = append(validatorOpts, validator.WithPrimitive(m.primitive))
	}

	v, err := validator.New(validatorOpts...)
	if err != nil {
		return err
	}

	coreOpts := []core.Option{core.WithValidator(v)}
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	m.core = c
	return nil
}

// Config returns a copy of the merged configuration in effect.
func (m *JWTMiddleware) Config() Config {
	return Merge(m.config.Config, Config{})
}

// SuccessMessage returns the configured success text, for handlers that
// want to acknowledge an authenticated request.
func (m *JWTMiddleware) SuccessMessage() string {
	return m.config.Messages.Success
}

// CheckJWT is the main JWTMiddleware function which performs the main logic. It
// is passed a http.Handler which will be called if the JWT passes validation.
//
// For every request exactly one of two things happens: the error handler
// writes a rejection, or next is called once with the claims in the
// request context.
func (m *JWTMiddleware) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Authenticate(r)
		if err != nil {
			if m.logger != nil {
				m.logger.Debug("rejecting request",
					"code", rejectionOutcome(err),
					"method", r.Method,
					"path", r.URL.Path)
			}
			m.errorHandler(w, r, err)
			return
		}

		r = r.Clone(core.SetClaims(r.Context(), claims))
		next.ServeHTTP(w, r)
	})
}

// HandlerWithNext is CheckJWT in the (response, request, next) form used
// by negroni-style routers.
func (m *JWTMiddleware) HandlerWithNext(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	m.CheckJWT(next).ServeHTTP(w, r)
}

// Authenticate extracts and verifies the request's token without writing a
// response. Framework adapters use it to build their own middleware.
func (m *JWTMiddleware) Authenticate(r *http.Request) (*ValidatedClaims, error) {
	return m.AuthenticateToken(r.Context(), m.tokenExtractor(r))
}

// AuthenticateToken verifies an already extracted token. An empty token
// yields ErrJWTMissing; any verification failure yields an error matching
// ErrJWTInvalid whose ErrorMessage is the configured error text.
func (m *JWTMiddleware) AuthenticateToken(ctx context.Context, token string) (*ValidatedClaims, error) {
	ctx, span := m.tracer.StartSpan(ctx, SpanVerify)
	defer span.Finish()

	start := time.Now()
	result, err := m.core.CheckToken(ctx, token)
	elapsed := time.Since(start)

	if err == nil {
		if claims, ok := result.(*ValidatedClaims); ok {
			m.observe(span, token, OutcomeAuthenticated, elapsed)
			return claims, nil
		}
		err = core.NewValidationError(core.ErrorCodeInvalidToken, "unexpected claims type", fmt.Errorf("%T", result))
	}

	outcome := rejectionOutcome(err)
	m.observe(span, token, outcome, elapsed)

	if errors.Is(err, ErrJWTMissing) {
		return nil, ErrJWTMissing
	}
	return nil, &invalidError{message: m.config.Messages.Error, details: err}
}

func (m *JWTMiddleware) observe(span Span, token, outcome string, elapsed time.Duration) {
	tags := map[string]string{"outcome": outcome}
	m.metrics.IncCounter(MetricRequestsTotal, tags)
	if token != "" {
		m.metrics.ObserveHistogram(MetricVerificationDuration, elapsed.Seconds(), tags)
	}
	span.SetTag("jwtgate.outcome", outcome)
	span.SetTag("jwtgate.authenticated", outcome == OutcomeAuthenticated)
}

func (m *JWTMiddleware) skip(r *http.Request) bool {
	if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
		if m.logger != nil {
			m.logger.Debug("skipping JWT validation for excluded URL",
				"method", r.Method,
				"path", r.URL.Path)
		}
		return true
	}
	// If we don't validate on OPTIONS and this is OPTIONS
	// then continue onto next without validating.
	if !m.validateOnOptions && r.Method == http.MethodOptions {
		if m.logger != nil {
			m.logger.Debug("skipping JWT validation for OPTIONS request")
		}
		return true
	}
	return false
}

func rejectionOutcome(err error) string {
	if errors.Is(err, ErrJWTMissing) {
		return OutcomeMissing
	}
	if code := core.ErrorCode(err); code != "" {
		return code
	}
	return core.ErrorCodeInvalidToken
}

// GetClaims retrieves the claims the gate stored for this request.
//
//	claims, err := jwtgate.GetClaims(r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.Get("userId"))
func GetClaims(ctx context.Context) (*ValidatedClaims, error) {
	return core.GetClaims[*ValidatedClaims](ctx)
}

// MustGetClaims retrieves claims from the context or panics.
// Use only behind CheckJWT.
func MustGetClaims(ctx context.Context) *ValidatedClaims {
	claims, err := GetClaims(ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
