//go:build integration

package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-hub/grants"
	"github.com/jrsteele09/go-auth-hub/hosts"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/store/postgres"
	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/secrets"
	"github.com/jrsteele09/go-auth-hub/users"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*postgres.Store, *postgres.DB) {
	t.Helper()
	dsn := os.Getenv("IT_DB_DSN")
	if dsn == "" {
		t.Skip("IT_DB_DSN is empty")
	}
	ctx := context.Background()
	require.NoError(t, postgres.Migrate(ctx, dsn))

	db, err := postgres.New(ctx, postgres.Config{URL: dsn, QueryTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Pool.Exec(ctx, `TRUNCATE app_user, subrequest_host, secret CASCADE`)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `UPDATE sweep_state SET last_swept = '-infinity'`)
	require.NoError(t, err)
	return postgres.NewStore(db), db
}

func TestPostgres_SessionsAndGrants(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)

	dir := users.NewDirectory(store.Users())
	alice, err := dir.Create(ctx, "alice", "alice-pass", false)
	require.NoError(t, err)
	_, err = dir.Create(ctx, "alice", "again", false)
	require.ErrorIs(t, err, errors.ErrConflict)

	got, err := dir.Authenticate(ctx, "alice", "alice-pass")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	sessions := loginsession.NewStore(store.Sessions(), loginsession.WithNowFunc(func() time.Time { return now }))
	s1, err := sessions.Create(ctx, alice.ID, "192.0.2.1")
	require.NoError(t, err)
	s2, err := sessions.Create(ctx, alice.ID, "192.0.2.2")
	require.NoError(t, err)

	data, required, err := sessions.Validate(ctx, s1.EncodedToken())
	require.NoError(t, err)
	require.Nil(t, required)
	require.Equal(t, alice.ID, data.User.ID)

	allow := hosts.NewAllowList(store.Hosts())
	host, err := allow.Add(ctx, "https://files.example.org/")
	require.NoError(t, err)

	g := grants.NewStore(store.Grants())
	require.NoError(t, g.Grant(ctx, s1.ID, host))
	require.NoError(t, g.Grant(ctx, s1.ID, host))
	require.ErrorIs(t, g.Grant(ctx, s1.ID, "unlisted.example.org."), errors.ErrUnknownHost)
	require.ErrorIs(t, g.Grant(ctx, uuid.NewString(), host), errors.ErrSessionNotFound)

	list, err := sessions.ListWithGrants(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, []string{host}, list[0].Hosts)
	require.Empty(t, list[1].Hosts)

	n, err := sessions.EndAllExcept(ctx, alice.ID, s2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	granted, err := g.IsGranted(ctx, s1.ID, host)
	require.NoError(t, err)
	require.False(t, granted, "grants cascade with their session")

	require.ErrorIs(t, sessions.End(ctx, alice.ID, "not-a-uuid"), errors.ErrSessionNotFound)
	require.NoError(t, sessions.Logout(ctx, s2.EncodedToken()))
	_, required, err = sessions.Validate(ctx, s2.EncodedToken())
	require.NoError(t, err)
	require.Equal(t, loginsession.ReasonNotFound, required.Reason)
}

func TestPostgres_ClaimSweep(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	repo := store.Sessions()
	now := time.Now()

	ok, err := repo.ClaimSweep(ctx, now, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.ClaimSweep(ctx, now.Add(30*time.Minute), time.Hour)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.ClaimSweep(ctx, now.Add(time.Hour), time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPostgres_SecretsConcurrentFirstBoot(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	s := secrets.NewStore(store.Secrets())

	const workers = 8
	results := make([][]byte, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.GetOrCreate(ctx, secrets.SubrequestTokenKey, 32)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, results[0], results[i])
	}
}
