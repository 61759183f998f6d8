package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-hub/token"
	"github.com/stretchr/testify/require"
)

func TestHMACSigner(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := token.NewHMACSigner([]byte("0123456789abcdef0123456789abcdef"), "hub", token.WithSignerNowFunc(func() time.Time { return now }))

	raw, err := signer.Sign(jwt.MapClaims{
		"state": "abc",
		"exp":   now.Add(10 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		claims, err := signer.Verify(raw)
		require.NoError(t, err)
		require.Equal(t, "abc", claims["state"])
		require.Equal(t, "hub", claims["iss"])
	})

	t.Run("expired", func(t *testing.T) {
		later := token.NewHMACSigner([]byte("0123456789abcdef0123456789abcdef"), "hub", token.WithSignerNowFunc(func() time.Time { return now.Add(time.Hour) }))
		_, err := later.Verify(raw)
		require.Error(t, err)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := token.NewHMACSigner([]byte("0123456789abcdef0123456789abcdef"), "someone-else")
		_, err := other.Verify(raw)
		require.Error(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		noExp, err := signer.Sign(jwt.MapClaims{"state": "abc"})
		require.NoError(t, err)
		_, err = signer.Verify(noExp)
		require.Error(t, err)
	})
}
