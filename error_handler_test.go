package jwtgate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtgate/jwtgate/core"
)

func TestDefaultErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "ErrJWTMissing",
			err:         ErrJWTMissing,
			wantMessage: MissingTokenMessage,
		},
		{
			name:        "wrapped ErrJWTMissing",
			err:         fmt.Errorf("extracting: %w", ErrJWTMissing),
			wantMessage: MissingTokenMessage,
		},
		{
			name: "invalid token carries the configured text",
			err: &invalidError{
				message: "Session expired",
				details: core.NewValidationError(core.ErrorCodeTokenExpired, "token is expired", nil),
			},
			wantMessage: "Session expired",
		},
		{
			name:        "bare ErrJWTInvalid",
			err:         ErrJWTInvalid,
			wantMessage: DefaultErrorMessage,
		},
		{
			name:        "unexpected error",
			err:         errors.New("boom"),
			wantMessage: DefaultErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			DefaultErrorHandler(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestInvalidError(t *testing.T) {
	details := core.NewValidationError(core.ErrorCodeInvalidSignature, "token signature is invalid", nil)
	err := &invalidError{message: "Invalid token", details: details}

	assert.ErrorIs(t, err, ErrJWTInvalid)
	assert.ErrorIs(t, err, details)
	assert.Equal(t, "jwt invalid: token signature is invalid", err.Error())
	assert.Equal(t, core.ErrorCodeInvalidSignature, core.ErrorCode(err))
}

func TestErrorResponseBodyIsEscaped(t *testing.T) {
	recorder := httptest.NewRecorder()
	DefaultErrorHandler(recorder, nil, &invalidError{message: `say "no"`, details: ErrJWTInvalid})

	assert.JSONEq(t, `{"message":"say \"no\""}`, recorder.Body.String())
}
