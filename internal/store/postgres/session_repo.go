package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/users"
)

var _ loginsession.Repo = (*SessionRepo)(nil)

type SessionRepo struct {
	db *DB
}

const (
	qSessionInsert = `
INSERT INTO login_session (id, token, user_id, created, ip_address)
VALUES ($1::uuid, $2, $3::uuid, $4, $5);`

	qSessionByToken = `
SELECT s.id::text, s.user_id::text, s.created, s.ip_address,
       u.id::text, u.username, u.password_hash, u.is_admin, u.created
FROM login_session s
JOIN app_user u ON u.id = s.user_id
WHERE s.token = $1;`

	qSessionByID = `
SELECT id::text, user_id::text, created, ip_address
FROM login_session
WHERE id = $1::uuid;`

	qSessionListWithGrants = `
SELECT s.id::text, s.user_id::text, s.created, s.ip_address,
       COALESCE(array_agg(g.host ORDER BY g.host) FILTER (WHERE g.host IS NOT NULL), '{}')
FROM login_session s
LEFT JOIN login_session_subrequest_host g ON g.login_session_id = s.id
WHERE s.user_id = $1::uuid
GROUP BY s.id
ORDER BY s.created;`

	qSessionDelete = `
DELETE FROM login_session WHERE user_id = $1::uuid AND id = $2::uuid;`

	qSessionDeleteAllExcept = `
DELETE FROM login_session WHERE user_id = $1::uuid AND id <> $2::uuid;`

	qSessionDeleteByToken = `
DELETE FROM login_session WHERE token = $1;`

	qSessionDeleteCreatedBefore = `
DELETE FROM login_session WHERE created < $1;`

	// the single sweep_state row is the cross-replica sweep lock
	qSweepClaim = `
UPDATE sweep_state SET last_swept = $1
WHERE id = 1 AND last_swept <= $2;`
)

func (r *SessionRepo) Insert(ctx context.Context, s *loginsession.LoginSession) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qSessionInsert, s.ID, s.Token, s.UserID, s.Created, s.IPAddress); err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgForeignKeyViolation:
			return errors.Wrapf(errors.ErrUserNotFound, "session user %s", s.UserID)
		case pgUniqueViolation:
			return errors.Wrapf(errors.ErrConflict, "session %s", s.ID)
		}
		return errors.Wrapf(err, "session insert")
	}
	return nil
}

func (r *SessionRepo) GetByToken(ctx context.Context, token []byte) (*loginsession.LoginSession, *users.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var (
		s loginsession.LoginSession
		u users.User
	)
	err := r.db.execQueryer(ctx).QueryRow(ctx, qSessionByToken, token).Scan(
		&s.ID, &s.UserID, &s.Created, &s.IPAddress,
		&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.Created,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil, errors.ErrSessionNotFound
		}
		return nil, nil, errors.Wrapf(err, "session by token")
	}
	return &s, &u, nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*loginsession.LoginSession, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var s loginsession.LoginSession
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qSessionByID, id).Scan(&s.ID, &s.UserID, &s.Created, &s.IPAddress); err != nil {
		// an id that is not a uuid cannot exist
		if code, _ := pgErrorCode(err); noRows(err) || code == pgInvalidTextRepr {
			return nil, errors.ErrSessionNotFound
		}
		return nil, errors.Wrapf(err, "session by id")
	}
	return &s, nil
}

func (r *SessionRepo) ListWithGrants(ctx context.Context, userID string) ([]loginsession.SessionWithGrants, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qSessionListWithGrants, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "list sessions")
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (loginsession.SessionWithGrants, error) {
		var s loginsession.SessionWithGrants
		err := row.Scan(&s.ID, &s.UserID, &s.Created, &s.IPAddress, &s.Hosts)
		return s, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan sessions")
	}
	return list, nil
}

func (r *SessionRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	n, err := r.exec(ctx, qSessionDelete, userID, id)
	if code, _ := pgErrorCode(err); code == pgInvalidTextRepr {
		return false, nil
	}
	return n == 1, err
}

func (r *SessionRepo) DeleteAllExcept(ctx context.Context, userID, keepID string) (int64, error) {
	return r.exec(ctx, qSessionDeleteAllExcept, userID, keepID)
}

func (r *SessionRepo) DeleteByToken(ctx context.Context, token []byte) error {
	_, err := r.exec(ctx, qSessionDeleteByToken, token)
	return err
}

func (r *SessionRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.exec(ctx, qSessionDeleteCreatedBefore, cutoff)
}

func (r *SessionRepo) ClaimSweep(ctx context.Context, now time.Time, interval time.Duration) (bool, error) {
	n, err := r.exec(ctx, qSweepClaim, now, now.Add(-interval))
	return n == 1, err
}

func (r *SessionRepo) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.execQueryer(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "session exec")
	}
	return tag.RowsAffected(), nil
}
