package users

import "context"

// Repo stores users. Lookups of unknown users fail with errors.ErrUserNotFound
// and Create fails with errors.ErrConflict for a taken username.
type Repo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	AdminExists(ctx context.Context) (bool, error)
}
