package jwtgate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtgate/jwtgate/signing"
)

func TestDefaultConfig(t *testing.T) {
	want := Config{
		Messages:   Messages{Success: "Token is valid", Error: "Invalid token"},
		ExpiresIn:  "1h",
		Algorithms: []string{"HS256"},
	}
	if diff := cmp.Diff(want, DefaultConfig()); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}

	// Each call returns a fresh slice.
	first := DefaultConfig()
	first.Algorithms[0] = "HS512"
	assert.Equal(t, "HS256", DefaultConfig().Algorithms[0])
}

func TestMerge(t *testing.T) {
	testCases := []struct {
		name     string
		override Config
		want     Config
	}{
		{
			name:     "empty override keeps defaults",
			override: Config{},
			want:     DefaultConfig(),
		},
		{
			name:     "only error message overridden",
			override: Config{Messages: Messages{Error: "Session expired"}},
			want: Config{
				Messages:   Messages{Success: "Token is valid", Error: "Session expired"},
				ExpiresIn:  "1h",
				Algorithms: []string{"HS256"},
			},
		},
		{
			name:     "only success message overridden",
			override: Config{Messages: Messages{Success: "Welcome back"}},
			want: Config{
				Messages:   Messages{Success: "Welcome back", Error: "Invalid token"},
				ExpiresIn:  "1h",
				Algorithms: []string{"HS256"},
			},
		},
		{
			name:     "expiry and algorithms replaced wholesale",
			override: Config{ExpiresIn: "2d", Algorithms: []string{"HS512", "HS256"}},
			want: Config{
				Messages:   Messages{Success: "Token is valid", Error: "Invalid token"},
				ExpiresIn:  "2d",
				Algorithms: []string{"HS512", "HS256"},
			},
		},
		{
			name:     "explicitly empty algorithms are kept",
			override: Config{Algorithms: []string{}},
			want: Config{
				Messages:   Messages{Success: "Token is valid", Error: "Invalid token"},
				ExpiresIn:  "1h",
				Algorithms: []string{},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Merge(DefaultConfig(), testCase.override)
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	defaults := DefaultConfig()
	override := Config{Algorithms: []string{"HS384"}}

	merged := Merge(defaults, override)
	merged.Algorithms[0] = "HS512"

	assert.Equal(t, []string{"HS384"}, override.Algorithms)
	assert.Equal(t, []string{"HS256"}, defaults.Algorithms)

	merged = Merge(defaults, Config{})
	merged.Algorithms[0] = "HS512"
	assert.Equal(t, []string{"HS256"}, defaults.Algorithms)
}

func TestResolve(t *testing.T) {
	t.Run("nil config resolves to defaults", func(t *testing.T) {
		resolved, err := resolve(nil)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, resolved.expiresIn)
		assert.Equal(t, []signing.SignatureAlgorithm{signing.HS256}, resolved.algorithms)
		assert.Equal(t, DefaultSuccessMessage, resolved.Messages.Success)
	})

	t.Run("numeric expiry is seconds", func(t *testing.T) {
		resolved, err := resolve(&Config{ExpiresIn: "90"})
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, resolved.expiresIn)
	})

	t.Run("empty algorithm list", func(t *testing.T) {
		_, err := resolve(&Config{Algorithms: []string{}})
		assert.ErrorIs(t, err, ErrAlgorithmsEmpty)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := resolve(&Config{Algorithms: []string{"HS256", "XX999"}})
		assert.ErrorIs(t, err, signing.ErrUnsupportedAlgorithm)
	})

	t.Run("zero expiry", func(t *testing.T) {
		_, err := resolve(&Config{ExpiresIn: "0s"})
		assert.ErrorIs(t, err, signing.ErrInvalidExpiry)

		_, err = New(testSecret, &Config{ExpiresIn: "0"})
		assert.ErrorIs(t, err, signing.ErrInvalidExpiry)
	})

	t.Run("bad expiry", func(t *testing.T) {
		_, err := resolve(&Config{ExpiresIn: "soon"})
		assert.ErrorIs(t, err, signing.ErrInvalidExpiry)
		assert.ErrorContains(t, err, "expiresIn")
	})
}
