package loginsession

import (
	"context"
	"time"

	"github.com/jrsteele09/go-auth-hub/users"
)

// Repo persists login sessions. Deleting a session must delete its host
// grants in the same operation. Lookups of unknown tokens or ids fail with
// errors.ErrSessionNotFound.
type Repo interface {
	Insert(ctx context.Context, session *LoginSession) error
	GetByToken(ctx context.Context, token []byte) (*LoginSession, *users.User, error)
	GetByID(ctx context.Context, id string) (*LoginSession, error)
	ListWithGrants(ctx context.Context, userID string) ([]SessionWithGrants, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	DeleteAllExcept(ctx context.Context, userID, keepID string) (int64, error)
	DeleteByToken(ctx context.Context, token []byte) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// ClaimSweep atomically marks a sweep as started at now unless another
	// one started less than interval ago. It reports whether the caller won.
	ClaimSweep(ctx context.Context, now time.Time, interval time.Duration) (bool, error)
}
