package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/pkg/auth"
)

func signer(ttl time.Duration) *auth.Signer {
	return auth.NewSigner(config.JWTConfig{Secret: "test-secret", TTL: ttl, Issuer: "projectdesk"})
}

func TestTokenRoundTrip(t *testing.T) {
	s := signer(time.Hour)

	tok, err := s.GenerateToken(17, "ana@example.com", "Worker")
	require.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Worker", claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	s := signer(-time.Minute)

	tok, err := s.GenerateToken(1, "a@b.c", "Admin")
	require.NoError(t, err)

	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestForeignSecretRejected(t *testing.T) {
	other := auth.NewSigner(config.JWTConfig{Secret: "other", TTL: time.Hour, Issuer: "projectdesk"})
	tok, err := other.GenerateToken(1, "a@b.c", "Admin")
	require.NoError(t, err)

	_, err = signer(time.Hour).ValidateToken(tok)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, auth.CheckPassword(hash, "s3cret!"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}
