package validator

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtgate/jwtgate/signing"
	"github.com/jwtgate/jwtgate/signing/golangjwt"
	"github.com/jwtgate/jwtgate/signing/jwx"
)

func signToken(t *testing.T, p signing.Primitive, alg signing.SignatureAlgorithm, expiresIn time.Duration, claims map[string]any) string {
	t.Helper()
	token, err := p.Sign(context.Background(), claims, []byte("s3cret"), signing.SignOptions{
		Algorithm: alg,
		ExpiresIn: expiresIn,
		IssuedAt:  time.Unix(time.Now().Unix(), 0),
	})
	require.NoError(t, err)
	return token
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name       string
		primitive  signing.Primitive
		algorithms []signing.SignatureAlgorithm
		signAlg    signing.SignatureAlgorithm
		expiresIn  time.Duration
		claims     map[string]any
		wantClaims ClaimSet
		wantErr    error
	}{
		{
			name:       "it successfully validates a token",
			primitive:  golangjwt.New(),
			algorithms: []signing.SignatureAlgorithm{HS256},
			signAlg:    HS256,
			expiresIn:  time.Hour,
			claims:     map[string]any{"userId": "42", "role": "admin"},
			wantClaims: ClaimSet{"userId": "42", "role": "admin"},
		},
		{
			name:       "it successfully validates a token with the jwx primitive",
			primitive:  jwx.New(),
			algorithms: []signing.SignatureAlgorithm{HS256},
			signAlg:    HS256,
			expiresIn:  time.Hour,
			claims:     map[string]any{"userId": "42"},
			wantClaims: ClaimSet{"userId": "42"},
		},
		{
			name:       "it drops registered and non-string claims from the claim set",
			primitive:  golangjwt.New(),
			algorithms: []signing.SignatureAlgorithm{HS256},
			signAlg:    HS256,
			expiresIn:  time.Hour,
			claims:     map[string]any{"sub": "user|1", "count": 3, "userId": "42"},
			wantClaims: ClaimSet{"userId": "42"},
		},
		{
			name:       "it fails when the algorithm is not allowed",
			primitive:  golangjwt.New(),
			algorithms: []signing.SignatureAlgorithm{RS256},
			signAlg:    HS256,
			expiresIn:  time.Hour,
			claims:     map[string]any{"userId": "42"},
			wantErr:    signing.ErrAlgorithmNotAllowed,
		},
		{
			name:       "it fails when the token is expired",
			primitive:  golangjwt.New(),
			algorithms: []signing.SignatureAlgorithm{HS256},
			signAlg:    HS256,
			expiresIn:  -time.Minute,
			claims:     map[string]any{"userId": "42"},
			wantErr:    signing.ErrTokenExpired,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			v, err := New(
				WithSecret("s3cret"),
				WithAlgorithms(testCase.algorithms...),
				WithPrimitive(testCase.primitive),
			)
			require.NoError(t, err)

			token := signToken(t, testCase.primitive, testCase.signAlg, testCase.expiresIn, testCase.claims)

			got, err := v.ValidateToken(context.Background(), token)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)

			claims, ok := got.(*ValidatedClaims)
			require.True(t, ok)
			if diff := cmp.Diff(testCase.wantClaims, claims.Claims, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("claims mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, int64(testCase.expiresIn.Seconds()), claims.RegisteredClaims.Expiry-claims.RegisteredClaims.IssuedAt)
		})
	}
}

func Test_ValidateWithClockSkew(t *testing.T) {
	token := signToken(t, golangjwt.New(), HS256, -5*time.Second, map[string]any{"userId": "42"})

	strict, err := New(WithSecret("s3cret"), WithAlgorithms(HS256))
	require.NoError(t, err)
	_, err = strict.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, signing.ErrTokenExpired)

	lenient, err := New(WithSecret("s3cret"), WithAlgorithms(HS256), WithAllowedClockSkew(time.Minute))
	require.NoError(t, err)
	_, err = lenient.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Run("it requires a secret", func(t *testing.T) {
		_, err := New(WithAlgorithms(HS256))
		assert.ErrorIs(t, err, ErrSecretRequired)
	})

	t.Run("it requires algorithms", func(t *testing.T) {
		_, err := New(WithSecret("s3cret"))
		assert.ErrorIs(t, err, ErrAlgorithmsRequired)
	})

	t.Run("it copies the allow-list", func(t *testing.T) {
		algs := []signing.SignatureAlgorithm{HS256, HS512}
		v, err := New(WithSecret("s3cret"), WithAlgorithms(algs...))
		require.NoError(t, err)

		algs[0] = RS256
		assert.Equal(t, []signing.SignatureAlgorithm{HS256, HS512}, v.Algorithms())
	})
}
