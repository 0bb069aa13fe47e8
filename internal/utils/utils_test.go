package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4) // low cost keeps the test fast
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestAccessTokenClaims(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "ORGANIZER", 15)
	require.NoError(t, err)

	tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "ORGANIZER", claims["role"])
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96) // 48 random bytes hex-encoded

	h1 := HashRefreshRaw(rt.Raw)
	h2 := HashRefreshRaw(rt.Raw)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, rt.Raw, h1)

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, HashRefreshRaw(other.Raw), h1)
}
