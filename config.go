package jwtgate

import (
	"errors"
	"fmt"
	"time"

	"github.com/jwtgate/jwtgate/signing"
)

// Default configuration values.
const (
	DefaultSuccessMessage = "Token is valid"
	DefaultErrorMessage   = "Invalid token"
	DefaultExpiresIn      = "1h"

	// MissingTokenMessage is the fixed response text when no bearer token
	// could be extracted. It is not configurable.
	MissingTokenMessage = "Unauthorized: No token provided"
)

// DefaultAlgorithm is the only algorithm allowed when none are configured.
const DefaultAlgorithm = string(signing.HS256)

// Messages holds the texts the gate exposes to clients and handlers.
type Messages struct {
	Success string `json:"successMessage,omitempty"`
	Error   string `json:"errorMessage,omitempty"`
}

// Config configures both the gate and the issuer.
//
// A Config passed to New or GenerateToken is an override: zero-valued
// fields keep their default. Algorithms is the one exception to zero
// meaning unset: nil keeps the default, a non-nil empty slice is kept
// as-is and rejected when used.
type Config struct {
	Messages Messages `json:"message"`
	// ExpiresIn is the lifetime of issued tokens, e.g. "1h", "2d", "3600".
	ExpiresIn string `json:"expiresIn,omitempty"`
	// Algorithms is the verification allow-list. Algorithms[0] signs
	// issued tokens; the remaining entries only widen verification.
	Algorithms []string `json:"algorithms,omitempty"`
}

// DefaultConfig returns a fresh copy of the default configuration.
func DefaultConfig() Config {
	return Config{
		Messages: Messages{
			Success: DefaultSuccessMessage,
			Error:   DefaultErrorMessage,
		},
		ExpiresIn:  DefaultExpiresIn,
		Algorithms: []string{DefaultAlgorithm},
	}
}

// Merge layers override on top of defaults field by field. The Messages pair
// is merged independently, so overriding only Error keeps the default
// Success text. Slices are copied; neither argument is modified.
func Merge(defaults Config, override Config) Config {
	merged := Config{
		Messages:   defaults.Messages,
		ExpiresIn:  defaults.ExpiresIn,
		Algorithms: append([]string(nil), defaults.Algorithms...),
	}

	if override.Messages.Success != "" {
		merged.Messages.Success = override.Messages.Success
	}
	if override.Messages.Error != "" {
		merged.Messages.Error = override.Messages.Error
	}
	if override.ExpiresIn != "" {
		merged.ExpiresIn = override.ExpiresIn
	}
	if override.Algorithms != nil {
		merged.Algorithms = append(make([]string, 0, len(override.Algorithms)), override.Algorithms...)
	}

	return merged
}

// ErrAlgorithmsEmpty is returned when a merged configuration lists no algorithm.
var ErrAlgorithmsEmpty = errors.New("at least one algorithm must be configured")

// resolvedConfig is a merged Config with its strings parsed.
type resolvedConfig struct {
	Config
	expiresIn  time.Duration
	algorithms []signing.SignatureAlgorithm
}

// resolve merges cfg over the defaults and parses it. A nil cfg means
// defaults only.
func resolve(cfg *Config) (resolvedConfig, error) {
	override := Config{}
	if cfg != nil {
		override = *cfg
	}
	merged := Merge(DefaultConfig(), override)

	if len(merged.Algorithms) == 0 {
		return resolvedConfig{}, ErrAlgorithmsEmpty
	}
	algorithms, err := signing.ParseAlgorithms(merged.Algorithms)
	if err != nil {
		return resolvedConfig{}, err
	}

	expiresIn, err := signing.ParseExpiry(merged.ExpiresIn)
	if err != nil {
		return resolvedConfig{}, fmt.Errorf("expiresIn: %w", err)
	}

	return resolvedConfig{
		Config:     merged,
		expiresIn:  expiresIn,
		algorithms: algorithms,
	}, nil
}
