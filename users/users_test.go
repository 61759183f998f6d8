package users_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/store/memory"
	"github.com/jrsteele09/go-auth-hub/users"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("correct horse")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("correct horse", hash))
	require.False(t, users.CheckPasswordHash("battery staple", hash))
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	dir := users.NewDirectory(memory.New().Users())

	created, err := dir.Create(ctx, "alice", "s3cret-pass", false)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotEqual(t, "s3cret-pass", created.PasswordHash)

	t.Run("authenticate", func(t *testing.T) {
		u, err := dir.Authenticate(ctx, "alice", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, created.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := dir.Authenticate(ctx, "alice", "nope")
		require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := dir.Authenticate(ctx, "bob", "s3cret-pass")
		require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := dir.Create(ctx, "alice", "other", false)
		require.ErrorIs(t, err, errors.ErrConflict)
	})

	t.Run("admin exists", func(t *testing.T) {
		ok, err := dir.AdminExists(ctx)
		require.NoError(t, err)
		require.False(t, ok)

		_, err = dir.Create(ctx, "admin", "root-pass", true)
		require.NoError(t, err)

		ok, err = dir.AdminExists(ctx)
		require.NoError(t, err)
		require.True(t, ok)
	})
}
