package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jrsteele09/go-auth-hub/hosts"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

var _ hosts.Repo = (*HostRepo)(nil)

type HostRepo struct {
	db *DB
}

const (
	qHostExists = `SELECT EXISTS (SELECT 1 FROM subrequest_host WHERE host = $1);`
	qHostList   = `SELECT host FROM subrequest_host ORDER BY host;`
	qHostAdd    = `INSERT INTO subrequest_host (host) VALUES ($1) ON CONFLICT DO NOTHING;`
	qHostDelete = `DELETE FROM subrequest_host WHERE host = $1;`
)

func (r *HostRepo) Exists(ctx context.Context, host string) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var ok bool
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qHostExists, host).Scan(&ok); err != nil {
		return false, errors.Wrapf(err, "host exists")
	}
	return ok, nil
}

func (r *HostRepo) List(ctx context.Context) ([]string, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qHostList)
	if err != nil {
		return nil, errors.Wrapf(err, "list hosts")
	}
	list, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrapf(err, "scan hosts")
	}
	return list, nil
}

func (r *HostRepo) Add(ctx context.Context, host string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qHostAdd, host); err != nil {
		return errors.Wrapf(err, "host add")
	}
	return nil
}

func (r *HostRepo) Delete(ctx context.Context, host string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qHostDelete, host); err != nil {
		return errors.Wrapf(err, "host delete")
	}
	return nil
}
