package memory

import (
	"context"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/secrets"
)

var _ secrets.Repo = (*SecretRepo)(nil)

type SecretRepo struct {
	s *Store
}

func (r *SecretRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.secrets[key]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *SecretRepo) CreateIfAbsent(_ context.Context, key string, value []byte) ([]byte, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.secrets[key]; ok {
		return append([]byte(nil), existing...), nil
	}
	r.s.secrets[key] = append([]byte(nil), value...)
	return append([]byte(nil), value...), nil
}
