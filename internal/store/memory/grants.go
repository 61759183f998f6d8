package memory

import (
	"context"

	"github.com/jrsteele09/go-auth-hub/grants"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

var _ grants.Repo = (*GrantRepo)(nil)

type GrantRepo struct {
	s *Store
}

func (r *GrantRepo) Upsert(_ context.Context, sessionID, host string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[sessionID]; !ok {
		return errors.Wrapf(errors.ErrSessionNotFound, "grant for %s", sessionID)
	}
	if _, ok := r.s.grants[sessionID]; !ok {
		r.s.grants[sessionID] = make(map[string]struct{})
	}
	r.s.grants[sessionID][host] = struct{}{}
	return nil
}

func (r *GrantRepo) Delete(_ context.Context, sessionID, host string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sessionGrants, ok := r.s.grants[sessionID]
	if !ok {
		return nil
	}
	delete(sessionGrants, host)
	if len(sessionGrants) == 0 {
		delete(r.s.grants, sessionID)
	}
	return nil
}

func (r *GrantRepo) Exists(_ context.Context, sessionID, host string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.grants[sessionID][host]
	return ok, nil
}

// Count returns the number of grant rows, for asserting on duplicates.
func (r *GrantRepo) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, hosts := range r.s.grants {
		n += len(hosts)
	}
	return n
}
