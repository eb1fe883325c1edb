package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtgate/jwtgate/signing"
)

// mockValidator is a mock implementation of Validator for testing.
type mockValidator struct {
	calls        int
	validateFunc func(ctx context.Context, token string) (any, error)
}

func (m *mockValidator) ValidateToken(ctx context.Context, token string) (any, error) {
	m.calls++
	if m.validateFunc != nil {
		return m.validateFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

// mockLogger is a mock implementation of Logger for testing.
type mockLogger struct {
	debugCalls []logCall
	infoCalls  []logCall
	warnCalls  []logCall
	errorCalls []logCall
}

type logCall struct {
	msg  string
	args []any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, logCall{msg, args})
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, logCall{msg, args})
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, logCall{msg, args})
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.errorCalls = append(m.errorCalls, logCall{msg, args})
}

func TestNew(t *testing.T) {
	t.Run("successful creation with required options", func(t *testing.T) {
		c, err := New(WithValidator(&mockValidator{}))
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("missing validator", func(t *testing.T) {
		_, err := New()
		require.Error(t, err)
		assert.Equal(t, ErrorCodeValidatorNotSet, ErrorCode(err))
	})

	t.Run("nil validator", func(t *testing.T) {
		_, err := New(WithValidator(nil))
		assert.EqualError(t, err, "validator cannot be nil")
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := New(WithValidator(&mockValidator{}), WithLogger(nil))
		assert.EqualError(t, err, "logger cannot be nil")
	})
}

func TestCheckToken(t *testing.T) {
	t.Run("empty token returns ErrJWTMissing without calling the validator", func(t *testing.T) {
		v := &mockValidator{}
		logger := &mockLogger{}
		c, err := New(WithValidator(v), WithLogger(logger))
		require.NoError(t, err)

		claims, err := c.CheckToken(context.Background(), "")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrJWTMissing)
		assert.False(t, errors.Is(err, ErrJWTInvalid))
		assert.Equal(t, 0, v.calls)
		assert.Len(t, logger.debugCalls, 1)
	})

	t.Run("valid token returns claims", func(t *testing.T) {
		v := &mockValidator{validateFunc: func(_ context.Context, token string) (any, error) {
			return "claims for " + token, nil
		}}
		c, err := New(WithValidator(v))
		require.NoError(t, err)

		claims, err := c.CheckToken(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "claims for abc", claims)
		assert.Equal(t, 1, v.calls)
	})

	t.Run("canceled context short-circuits", func(t *testing.T) {
		v := &mockValidator{}
		c, err := New(WithValidator(v))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = c.CheckToken(ctx, "abc")
		assert.ErrorIs(t, err, ErrJWTInvalid)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, ErrorCodeRequestCanceled, ErrorCode(err))
		assert.Equal(t, 0, v.calls)
	})

	testCases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "malformed", err: signing.ErrTokenMalformed, wantCode: ErrorCodeTokenMalformed},
		{name: "expired", err: signing.ErrTokenExpired, wantCode: ErrorCodeTokenExpired},
		{name: "not yet valid", err: signing.ErrTokenNotValidYet, wantCode: ErrorCodeTokenNotYetValid},
		{name: "algorithm", err: signing.ErrAlgorithmNotAllowed, wantCode: ErrorCodeInvalidAlgorithm},
		{name: "signature", err: signing.ErrSignatureInvalid, wantCode: ErrorCodeInvalidSignature},
		{name: "unknown", err: errors.New("boom"), wantCode: ErrorCodeInvalidToken},
	}

	for _, testCase := range testCases {
		t.Run("classifies "+testCase.name, func(t *testing.T) {
			v := &mockValidator{validateFunc: func(context.Context, string) (any, error) {
				return nil, fmt.Errorf("wrapped: %w", testCase.err)
			}}
			logger := &mockLogger{}
			c, err := New(WithValidator(v), WithLogger(logger))
			require.NoError(t, err)

			claims, err := c.CheckToken(context.Background(), "abc")
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrJWTInvalid)
			assert.ErrorIs(t, err, testCase.err)
			assert.Equal(t, testCase.wantCode, ErrorCode(err))
			require.Len(t, logger.warnCalls, 1)
			assert.Equal(t, "token validation failed", logger.warnCalls[0].msg)
		})
	}
}
