package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(expiry time.Duration) *AuthService {
	// No database needed for the password/token paths.
	return NewAuthService(nil, "test-secret", expiry, 4)
}

func TestHashAndVerifyPassword(t *testing.T) {
	s := newTestAuth(time.Hour)

	hash, err := s.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, s.VerifyPassword("hunter22", hash))
	assert.False(t, s.VerifyPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestAuth(time.Hour)

	token, err := s.GenerateToken("64f000000000000000000001", "user")
	require.NoError(t, err)

	userID, role, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", userID)
	assert.Equal(t, "user", role)
}

func TestExpiredTokenRejected(t *testing.T) {
	s := newTestAuth(-time.Minute)

	token, err := s.GenerateToken("64f000000000000000000001", "user")
	require.NoError(t, err)

	_, _, err = s.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a", time.Hour, 4)
	verifier := NewAuthService(nil, "secret-b", time.Hour, 4)

	token, err := issuer.GenerateToken("64f000000000000000000001", "user")
	require.NoError(t, err)

	_, _, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	s := newTestAuth(time.Hour)

	_, _, err := s.ParseToken("not.a.jwt")
	assert.Error(t, err)
}
