package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/users"
)

var _ users.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

const (
	qUserInsert = `
INSERT INTO app_user (id, username, password_hash, is_admin, created)
VALUES ($1::uuid, $2, $3, $4, $5);`

	qUserByID = `
SELECT id::text, username, password_hash, is_admin, created
FROM app_user
WHERE id = $1::uuid;`

	qUserByUsername = `
SELECT id::text, username, password_hash, is_admin, created
FROM app_user
WHERE username = $1;`

	qUserAdminExists = `
SELECT EXISTS (SELECT 1 FROM app_user WHERE is_admin);`
)

func (r *UserRepo) Create(ctx context.Context, u *users.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Created.IsZero() {
		u.Created = time.Now()
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qUserInsert, u.ID, u.Username, u.PasswordHash, u.IsAdmin, u.Created); err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return errors.Wrapf(errors.ErrConflict, "username %s", u.Username)
		}
		return errors.Wrapf(err, "user insert")
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanUser(r.db.execQueryer(ctx).QueryRow(ctx, qUserByID, id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanUser(r.db.execQueryer(ctx).QueryRow(ctx, qUserByUsername, username))
}

func (r *UserRepo) AdminExists(ctx context.Context) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var ok bool
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qUserAdminExists).Scan(&ok); err != nil {
		return false, errors.Wrapf(err, "admin exists")
	}
	return ok, nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var u users.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.Created); err != nil {
		if code, _ := pgErrorCode(err); noRows(err) || code == pgInvalidTextRepr {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "scan user")
	}
	return &u, nil
}
