package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time, userID string) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Role:   "customer",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	t.Run("reads claims without verification", func(t *testing.T) {
		tok := signedToken(t, time.Now().Add(time.Hour), "user-42")

		claims, err := Inspect(tok)
		require.NoError(t, err)
		assert.Equal(t, "user-42", claims.UserID)
		assert.Equal(t, "customer", claims.Role)
		require.NotNil(t, claims.ExpiresAt)
	})

	t.Run("reads claims of an expired token", func(t *testing.T) {
		tok := signedToken(t, time.Now().Add(-time.Hour), "user-42")

		claims, err := Inspect(tok)
		require.NoError(t, err, "inspection must not apply claim validation")
		assert.Equal(t, "user-42", claims.UserID)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := Inspect("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestExpired(t *testing.T) {
	now := time.Now()

	t.Run("live token", func(t *testing.T) {
		tok := signedToken(t, now.Add(time.Hour), "u")
		assert.False(t, Expired(tok, now))
	})

	t.Run("expired token", func(t *testing.T) {
		tok := signedToken(t, now.Add(-time.Minute), "u")
		assert.True(t, Expired(tok, now))
	})

	t.Run("opaque token is treated as live", func(t *testing.T) {
		assert.False(t, Expired("opaque-session-handle", now))
	})

	t.Run("token without exp is treated as live", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u"}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)
		assert.False(t, Expired(tok, now))
	})
}

func TestRemainingTTL(t *testing.T) {
	now := time.Now()

	t.Run("live token", func(t *testing.T) {
		tok := signedToken(t, now.Add(time.Hour), "u")
		ttl := RemainingTTL(tok, now)
		assert.InDelta(t, time.Hour, ttl, float64(2*time.Second))
	})

	t.Run("expired token yields zero", func(t *testing.T) {
		tok := signedToken(t, now.Add(-time.Hour), "u")
		assert.Equal(t, time.Duration(0), RemainingTTL(tok, now))
	})

	t.Run("opaque token yields -1", func(t *testing.T) {
		assert.Equal(t, time.Duration(-1), RemainingTTL("opaque", now))
	})
}
