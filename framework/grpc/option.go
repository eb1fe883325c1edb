package jwtgrpc

import "errors"

// Option configures the interceptor.
type Option func(*JWTInterceptor) error

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *JWTInterceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *JWTInterceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from validation.
// Methods use the full form "/package.Service/Method", for example
// "/grpc.health.v1.Health/Check".
func WithExcludedMethods(methods ...string) Option {
	return func(i *JWTInterceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}

// WithLogger sets an optional logger for interceptor-level events.
func WithLogger(logger Logger) Option {
	return func(i *JWTInterceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}
