package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/users"
)

var _ users.Repo = (*UserRepo)(nil)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.usernames[user.Username]; taken {
		return errors.Wrapf(errors.ErrConflict, "username %q", user.Username)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Created.IsZero() {
		user.Created = time.Now()
	}
	stored := *user
	r.s.users[user.ID] = &stored
	r.s.usernames[user.Username] = user.ID
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.usernames[username]
	r.s.mu.RUnlock()
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) AdminExists(_ context.Context) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}
