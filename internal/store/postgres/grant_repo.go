package postgres

import (
	"context"

	"github.com/jrsteele09/go-auth-hub/grants"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

var _ grants.Repo = (*GrantRepo)(nil)

type GrantRepo struct {
	db *DB
}

const (
	qGrantUpsert = `
INSERT INTO login_session_subrequest_host (login_session_id, host)
VALUES ($1::uuid, $2)
ON CONFLICT DO NOTHING;`

	qGrantDelete = `
DELETE FROM login_session_subrequest_host WHERE login_session_id = $1::uuid AND host = $2;`

	qGrantExists = `
SELECT EXISTS (
    SELECT 1 FROM login_session_subrequest_host WHERE login_session_id = $1::uuid AND host = $2
);`
)

func (r *GrantRepo) Upsert(ctx context.Context, sessionID, host string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qGrantUpsert, sessionID, host); err != nil {
		if code, constraint := pgErrorCode(err); code == pgForeignKeyViolation {
			if constraint == "grant_host_fk" {
				return errors.Wrapf(errors.ErrUnknownHost, "%s", host)
			}
			return errors.Wrapf(errors.ErrSessionNotFound, "grant for %s", sessionID)
		}
		return errors.Wrapf(err, "grant upsert")
	}
	return nil
}

func (r *GrantRepo) Delete(ctx context.Context, sessionID, host string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qGrantDelete, sessionID, host); err != nil {
		return errors.Wrapf(err, "grant delete")
	}
	return nil
}

func (r *GrantRepo) Exists(ctx context.Context, sessionID, host string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var ok bool
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qGrantExists, sessionID, host).Scan(&ok); err != nil {
		return false, errors.Wrapf(err, "grant exists")
	}
	return ok, nil
}
