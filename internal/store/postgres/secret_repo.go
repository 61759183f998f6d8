package postgres

import (
	"context"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/secrets"
)

var _ secrets.Repo = (*SecretRepo)(nil)

type SecretRepo struct {
	db *DB
	tx Transactor
}

const (
	qSecretGet    = `SELECT value FROM secret WHERE key = $1;`
	qSecretInsert = `INSERT INTO secret (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING;`
)

func (r *SecretRepo) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var value []byte
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qSecretGet, key).Scan(&value); err != nil {
		if noRows(err) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrapf(err, "secret get")
	}
	return value, nil
}

// CreateIfAbsent inserts value unless another replica got there first, then
// returns the stored value.
func (r *SecretRepo) CreateIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error) {
	var stored []byte
	err := r.tx.WithTx(ctx, func(ctx context.Context) error {
		qctx, cancel := r.db.withTimeout(ctx)
		defer cancel()

		if _, err := r.db.execQueryer(ctx).Exec(qctx, qSecretInsert, key, value); err != nil {
			return errors.Wrapf(err, "secret insert")
		}
		var err error
		stored, err = r.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}
