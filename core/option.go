package core

import "errors"

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a Validator using WithValidator.
//
//	c, err := core.New(
//	    core.WithValidator(v),
//	    core.WithLogger(slog.Default()),
//	)
func New(opts ...Option) (*Core, error) {
	c := &Core{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.validator == nil {
		return nil, NewValidationError(
			ErrorCodeValidatorNotSet,
			"validator is required but not set (use WithValidator option)",
			nil,
		)
	}

	return c, nil
}

// WithValidator sets the validator for the Core.
// This is a required option.
func WithValidator(validator Validator) Option {
	return func(c *Core) error {
		if validator == nil {
			return errors.New("validator cannot be nil")
		}
		c.validator = validator
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
// Tokens and secrets are never passed to it.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
