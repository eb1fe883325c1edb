// Package jwtgrpc exposes a jwtgate.JWTMiddleware as gRPC unary and stream
// server interceptors.
//
//	gate, _ := jwtgate.New(secret, nil)
//	interceptor, _ := jwtgrpc.New(gate, jwtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"))
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// Handlers read the claims with jwtgate.GetClaims(ctx), exactly as HTTP
// handlers do.
package jwtgrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	"github.com/jwtgate/jwtgate"
	"github.com/jwtgate/jwtgate/core"
)

// Logger is the same slog-compatible interface the gate uses.
type Logger = jwtgate.Logger

// JWTInterceptor validates bearer tokens on incoming gRPC calls.
type JWTInterceptor struct {
	gate            *jwtgate.JWTMiddleware
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger
}

// New wraps gate. Verification, metrics and tracing are the gate's; the
// interceptor only moves the token in from metadata and the error out as a
// status.
func New(gate *jwtgate.JWTMiddleware, opts ...Option) (*JWTInterceptor, error) {
	if gate == nil {
		return nil, errors.New("gate is required")
	}

	interceptor := &JWTInterceptor{
		gate:            gate,
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that validates JWTs.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excluded(info.FullMethod) {
			return handler(ctx, req)
		}

		validatedCtx, err := i.validateRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(validatedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that validates JWTs.
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excluded(info.FullMethod) {
			return handler(srv, ss)
		}

		validatedCtx, err := i.validateRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          validatedCtx,
		})
	}
}

func (i *JWTInterceptor) excluded(method string) bool {
	if !i.excludedMethods[method] {
		return false
	}
	if i.logger != nil {
		i.logger.Debug("skipping JWT validation for excluded method", "method", method)
	}
	return true
}

// validateRequest extracts and validates the JWT from the context.
func (i *JWTInterceptor) validateRequest(ctx context.Context, method string) (context.Context, error) {
	claims, err := i.gate.AuthenticateToken(ctx, i.tokenExtractor(ctx))
	if err != nil {
		if i.logger != nil {
			i.logger.Debug("rejecting call", "method", method, "code", core.ErrorCode(err))
		}
		return ctx, i.errorHandler(err)
	}

	return core.SetClaims(ctx, claims), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context with JWT claims.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
