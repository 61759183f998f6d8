package secrets

import (
	"context"
	"crypto/rand"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/rs/zerolog/log"
)

// Well known secret keys.
const (
	SubrequestTokenKey = "Subrequest auth JWT secret"
	UpstreamStateKey   = "Upstream login state secret"
)

// Repo persists key material. CreateIfAbsent stores value only when key is
// unset and returns whichever value is stored afterwards, so concurrent
// first boots agree on one secret.
type Repo interface {
	Get(ctx context.Context, key string) ([]byte, error)
	CreateIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error)
}

type Store struct {
	repo Repo
}

func NewStore(repo Repo) *Store {
	return &Store{repo: repo}
}

// GetOrCreate returns the secret stored under key, generating size random
// bytes on first use.
func (s *Store) GetOrCreate(ctx context.Context, key string, size int) ([]byte, error) {
	value, err := s.repo.Get(ctx, key)
	if err == nil {
		if len(value) != size {
			return nil, errors.Wrapf(errors.ErrInternal, "[secrets GetOrCreate] %q has %d bytes, want %d", key, len(value), size)
		}
		return value, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Wrapf(err, "[secrets GetOrCreate] get %q", key)
	}

	fresh := make([]byte, size)
	if _, err := rand.Read(fresh); err != nil {
		return nil, errors.Wrapf(err, "[secrets GetOrCreate] generate %q", key)
	}
	stored, err := s.repo.CreateIfAbsent(ctx, key, fresh)
	if err != nil {
		return nil, errors.Wrapf(err, "[secrets GetOrCreate] create %q", key)
	}
	log.Info().Str("key", key).Msg("generated new secret")
	return stored, nil
}
