package jwtgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwtgate/jwtgate/signing"
	"github.com/jwtgate/jwtgate/signing/golangjwt"
)

// ErrSigningFailure wraps every error returned while issuing a token,
// including configuration errors detected at issuance time.
var ErrSigningFailure = errors.New("token signing failed")

// GenerateToken signs claims with secretKey. cfg is merged over
// DefaultConfig and may be nil.
//
// The token is signed with cfg.Algorithms[0] and expires after
// cfg.ExpiresIn. Further algorithms in the list are accepted by the gate
// but never used for signing; this is intentional, so one configuration can
// serve both sides while a signing algorithm is rotated.
func GenerateToken(claims ClaimSet, secretKey string, cfg *Config) (string, error) {
	issuer, err := NewIssuer(secretKey, cfg)
	if err != nil {
		return "", err
	}
	return issuer.Issue(context.Background(), claims)
}

// Issuer mints tokens for one secret and configuration. It is immutable
// after NewIssuer and safe for concurrent use.
type Issuer struct {
	secret    []byte
	config    resolvedConfig
	primitive signing.Primitive
	tokenIDs  bool
	metrics   Metrics
	logger    Logger
	now       func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer) error

// NewIssuer validates secretKey and cfg up front so Issue only fails on
// bad claims or primitive errors.
func NewIssuer(secretKey string, cfg *Config, opts ...IssuerOption) (*Issuer, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailure, ErrSecretEmpty)
	}

	resolved, err := resolve(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}

	i := &Issuer{
		secret:    []byte(secretKey),
		config:    resolved,
		primitive: golangjwt.New(),
		metrics:   &NoopMetrics{},
		now:       time.Now,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return i, nil
}

// Algorithm returns the algorithm issued tokens are signed with.
func (i *Issuer) Algorithm() signing.SignatureAlgorithm {
	return i.config.algorithms[0]
}

// Issue signs claims. Registered time claims (exp, iat, nbf) in claims are
// rejected; the issuer stamps iat and exp itself.
func (i *Issuer) Issue(ctx context.Context, claims ClaimSet) (string, error) {
	payload := make(map[string]any, len(claims)+1)
	for k, v := range claims {
		payload[k] = v
	}
	if _, ok := payload[signing.ClaimID]; i.tokenIDs && !ok {
		payload[signing.ClaimID] = uuid.NewString()
	}

	alg := i.Algorithm()
	token, err := i.primitive.Sign(ctx, payload, i.secret, signing.SignOptions{
		Algorithm: alg,
		ExpiresIn: i.config.expiresIn,
		IssuedAt:  i.now(),
	})
	if err != nil {
		i.metrics.IncCounter(MetricTokensIssuedTotal, map[string]string{"algorithm": string(alg), "outcome": OutcomeFailed})
		if i.logger != nil {
			i.logger.Error("failed to sign token", "algorithm", alg, "error", err)
		}
		return "", fmt.Errorf("%w: %w", ErrSigningFailure, err)
	}

	i.metrics.IncCounter(MetricTokensIssuedTotal, map[string]string{"algorithm": string(alg), "outcome": OutcomeIssued})
	if i.logger != nil {
		i.logger.Debug("token issued", "algorithm", alg, "expiresIn", i.config.expiresIn)
	}
	return token, nil
}

// WithIssuerPrimitive sets the signing primitive. Default: golangjwt.New().
func WithIssuerPrimitive(p signing.Primitive) IssuerOption {
	return func(i *Issuer) error {
		if p == nil {
			return ErrPrimitiveNil
		}
		i.primitive = p
		return nil
	}
}

// WithTokenID stamps a random UUID jti on every token whose claims do not
// already carry one.
func WithTokenID() IssuerOption {
	return func(i *Issuer) error {
		i.tokenIDs = true
		return nil
	}
}

// WithIssuerMetrics sets the metrics sink. Default: NoopMetrics.
func WithIssuerMetrics(metrics Metrics) IssuerOption {
	return func(i *Issuer) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		i.metrics = metrics
		return nil
	}
}

// WithIssuerLogger sets an optional logger. Claims and secrets are never logged.
func WithIssuerLogger(logger Logger) IssuerOption {
	return func(i *Issuer) error {
		if logger == nil {
			return ErrLoggerNil
		}
		i.logger = logger
		return nil
	}
}
