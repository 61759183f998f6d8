package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/users"
)

var _ loginsession.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	s *Store
}

func (r *SessionRepo) Insert(_ context.Context, session *loginsession.LoginSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[session.UserID]; !ok {
		return errors.Wrapf(errors.ErrUserNotFound, "session user %s", session.UserID)
	}
	if _, ok := r.s.sessions[session.ID]; ok {
		return errors.Wrapf(errors.ErrConflict, "session %s", session.ID)
	}
	if _, ok := r.s.tokens[string(session.Token)]; ok {
		return errors.Wrapf(errors.ErrConflict, "session token")
	}

	// Reads never return the raw token.
	stored := *session
	stored.Token = nil
	r.s.sessions[session.ID] = &stored
	r.s.tokens[string(session.Token)] = session.ID
	return nil
}

func (r *SessionRepo) GetByToken(_ context.Context, token []byte) (*loginsession.LoginSession, *users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.tokens[string(token)]
	if !ok {
		return nil, nil, errors.ErrSessionNotFound
	}
	session := *r.s.sessions[id]
	u, ok := r.s.users[session.UserID]
	if !ok {
		return nil, nil, errors.ErrSessionNotFound
	}
	user := *u
	return &session, &user, nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*loginsession.LoginSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	session, ok := r.s.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (r *SessionRepo) ListWithGrants(_ context.Context, userID string) ([]loginsession.SessionWithGrants, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]loginsession.SessionWithGrants, 0)
	for _, session := range r.s.sessions {
		if session.UserID != userID {
			continue
		}
		hosts := make([]string, 0, len(r.s.grants[session.ID]))
		for host := range r.s.grants[session.ID] {
			hosts = append(hosts, host)
		}
		sort.Strings(hosts)
		list = append(list, loginsession.SessionWithGrants{LoginSession: *session, Hosts: hosts})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Created.Before(list[j].Created)
	})
	return list, nil
}

func (r *SessionRepo) Delete(_ context.Context, userID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[id]
	if !ok || session.UserID != userID {
		return false, nil
	}
	r.s.deleteSessionLocked(id)
	return true, nil
}

func (r *SessionRepo) DeleteAllExcept(_ context.Context, userID, keepID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, session := range r.s.sessions {
		if session.UserID == userID && id != keepID {
			r.s.deleteSessionLocked(id)
			n++
		}
	}
	return n, nil
}

func (r *SessionRepo) DeleteByToken(_ context.Context, token []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id, ok := r.s.tokens[string(token)]; ok {
		r.s.deleteSessionLocked(id)
	}
	return nil
}

func (r *SessionRepo) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, session := range r.s.sessions {
		if session.Created.Before(cutoff) {
			r.s.deleteSessionLocked(id)
			n++
		}
	}
	return n, nil
}

func (r *SessionRepo) ClaimSweep(_ context.Context, now time.Time, interval time.Duration) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.lastSwept.IsZero() && now.Sub(r.s.lastSwept) < interval {
		return false, nil
	}
	r.s.lastSwept = now
	return true, nil
}
