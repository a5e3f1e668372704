package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsunaPahlo/armada-web/internal/shared/config"
)

func configureJWT(t *testing.T) {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-at-least-32-characters-long",
			TokenExpiration: time.Hour,
		},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func TestGenerateAndValidateJWT(t *testing.T) {
	configureJWT(t)

	user := &User{
		ID:         7,
		Username:   "asuna",
		Role:       RoleViewer,
		AllowedFCs: []string{"42", "77"},
	}

	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "asuna", claims.Username)
	assert.Equal(t, RoleViewer, claims.Role)
	assert.Equal(t, []string{"42", "77"}, claims.AllowedFCs)
	assert.Equal(t, "user_7", claims.Subject)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	configureJWT(t)

	token, err := GenerateJWT(&User{ID: 1, Username: "asuna", Role: RoleViewer})
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	configureJWT(t)

	token, err := GenerateJWT(&User{ID: 1, Username: "asuna", Role: RoleViewer})
	require.NoError(t, err)

	config.GlobalConfig.Auth.JWTSecret = "a-completely-different-32-char-secret!!"
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRequiresConfiguredSecret(t *testing.T) {
	configureJWT(t)
	config.GlobalConfig.Auth.JWTSecret = ""

	_, err := GenerateJWT(&User{ID: 1, Username: "asuna"})
	assert.Error(t, err)

	_, err = ValidateJWT("anything")
	assert.Error(t, err)
}

func TestScopeSet(t *testing.T) {
	tests := []struct {
		name   string
		claims *Claims
		want   map[string]bool
	}{
		{
			name:   "admin is unrestricted",
			claims: &Claims{Role: RoleAdmin, AllowedFCs: []string{"42"}},
			want:   nil,
		},
		{
			name:   "empty list is unrestricted",
			claims: &Claims{Role: RoleViewer},
			want:   nil,
		},
		{
			name:   "wildcard is unrestricted",
			claims: &Claims{Role: RoleViewer, AllowedFCs: []string{"42", "*"}},
			want:   nil,
		},
		{
			name:   "explicit list restricts",
			claims: &Claims{Role: RoleViewer, AllowedFCs: []string{"42", "77"}},
			want:   map[string]bool{"42": true, "77": true},
		},
		{
			name:   "nil claims",
			claims: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.ScopeSet())
		})
	}
}
