package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	s := NewAuthService()

	hash, err := s.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, s.VerifyPassword("hunter2", hash))
	assert.False(t, s.VerifyPassword("wrong", hash))
	assert.False(t, s.VerifyPassword("hunter2", "not-a-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	s := NewAuthService()

	token, err := s.CreateToken(42)
	require.NoError(t, err)

	userID, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	s := NewAuthService()

	_, err := s.VerifyToken("not.a.token")
	assert.Error(t, err)

	_, err = s.VerifyToken("")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	issuer := NewAuthService()
	token, err := issuer.CreateToken(7)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	verifier := NewAuthService()
	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	s := NewAuthService()

	stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	token, err := stale.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsUnsignedAlg(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	s := NewAuthService()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.Error(t, err)
}

func TestExpiryFromEnvironment(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	s := NewAuthService()
	assert.Equal(t, 30*time.Minute, s.tokenExpiry)

	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "garbage")
	s = NewAuthService()
	assert.Equal(t, 8*time.Hour, s.tokenExpiry)
}
