package token_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/token"
	"github.com/stretchr/testify/require"
)

const issuer = "urn:https://auth.example.org:subrequest-auth"

type codecFixture struct {
	now   time.Time
	codec *token.Codec
}

func setupCodecFixture(t *testing.T) *codecFixture {
	t.Helper()
	f := &codecFixture{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec, err := token.NewCodec(bytes.Repeat([]byte{7}, token.KeySize), token.WithNowFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.codec = codec
	return f
}

func TestCodec_RoundTrip(t *testing.T) {
	f := setupCodecFixture(t)
	claims := token.SubrequestClaims{NextURL: "https://files.example.org/docs?x=1", LoginSession: "session-1"}

	raw, err := f.codec.Encode(claims, issuer, issuer, 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, strings.Split(raw, "."), 5, "compact JWE has five segments")
	require.NotContains(t, raw, "files.example.org")

	f.now = f.now.Add(2*time.Hour - time.Second)
	decoded, err := f.codec.Decode(raw, issuer, issuer)
	require.NoError(t, err)
	require.Equal(t, claims, decoded.SubrequestClaims)
	require.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), decoded.IssuedAt.UTC())
	require.Equal(t, time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC), decoded.Expiry.UTC())
}

func TestCodec_Failures(t *testing.T) {
	claims := token.SubrequestClaims{NextURL: "https://files.example.org/", LoginSession: "session-1"}

	t.Run("expired", func(t *testing.T) {
		f := setupCodecFixture(t)
		raw, err := f.codec.Encode(claims, issuer, issuer, time.Hour)
		require.NoError(t, err)

		f.now = f.now.Add(time.Hour + time.Second)
		_, err = f.codec.Decode(raw, issuer, issuer)
		require.ErrorIs(t, err, errors.ErrTokenExpired)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		f := setupCodecFixture(t)
		raw, err := f.codec.Encode(claims, issuer, issuer, time.Hour)
		require.NoError(t, err)

		other := "urn:https://other.example.org:subrequest-auth"
		_, err = f.codec.Decode(raw, other, other)
		require.ErrorIs(t, err, errors.ErrAudienceMismatch)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		f := setupCodecFixture(t)
		raw, err := f.codec.Encode(claims, issuer, issuer, time.Hour)
		require.NoError(t, err)

		parts := strings.Split(raw, ".")
		ct := []byte(parts[3])
		if ct[0] == 'A' {
			ct[0] = 'B'
		} else {
			ct[0] = 'A'
		}
		parts[3] = string(ct)
		_, err = f.codec.Decode(strings.Join(parts, "."), issuer, issuer)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		f := setupCodecFixture(t)
		raw, err := f.codec.Encode(claims, issuer, issuer, time.Hour)
		require.NoError(t, err)

		other, err := token.NewCodec(bytes.Repeat([]byte{9}, token.KeySize))
		require.NoError(t, err)
		_, err = other.Decode(raw, issuer, issuer)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		f := setupCodecFixture(t)
		_, err := f.codec.Decode("not-a-token", issuer, issuer)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("short key", func(t *testing.T) {
		_, err := token.NewCodec([]byte("short"))
		require.Error(t, err)
	})
}
