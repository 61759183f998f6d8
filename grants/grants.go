package grants

import (
	"context"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

// Repo persists (login session, host) consent records. Upsert is idempotent
// and Delete of an absent grant is not an error.
type Repo interface {
	Upsert(ctx context.Context, sessionID, host string) error
	Delete(ctx context.Context, sessionID, host string) error
	Exists(ctx context.Context, sessionID, host string) (bool, error)
}

// Store records which hosts a login session has consented to. Hosts are
// expected in normalised form (see hosts.URLToHost).
type Store struct {
	repo Repo
}

func NewStore(repo Repo) *Store {
	return &Store{repo: repo}
}

func (s *Store) Grant(ctx context.Context, sessionID, host string) error {
	if err := s.repo.Upsert(ctx, sessionID, host); err != nil {
		return errors.Wrapf(err, "[grants Grant] %s %s", sessionID, host)
	}
	return nil
}

func (s *Store) Revoke(ctx context.Context, sessionID, host string) error {
	if err := s.repo.Delete(ctx, sessionID, host); err != nil {
		return errors.Wrapf(err, "[grants Revoke] %s %s", sessionID, host)
	}
	return nil
}

func (s *Store) IsGranted(ctx context.Context, sessionID, host string) (bool, error) {
	return s.repo.Exists(ctx, sessionID, host)
}
