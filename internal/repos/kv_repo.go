package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

func (r *KVRepo) Get(ctx context.Context, ns Namespace, key string) ([]byte, error) {
	var v []byte
	err := r.db.GetContext(ctx, &v, `
	  SELECT value FROM kv WHERE namespace = ? AND version = ? AND key = ?
	`, ns.Name, ns.Version, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (r *KVRepo) Put(ctx context.Context, ns Namespace, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO kv(namespace, version, key, value, updated_at)
	  VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(namespace, version, key) DO UPDATE
	  SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, ns.Name, ns.Version, key, value)
	return err
}

func (r *KVRepo) Delete(ctx context.Context, ns Namespace, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ? AND version = ? AND key = ?`,
		ns.Name, ns.Version, key)
	return err
}

// PruneSuperseded removes rows of the given namespaces stored under any other version.
func (r *KVRepo) PruneSuperseded(ctx context.Context, current []Namespace) (int64, error) {
	var total int64
	for _, ns := range current {
		res, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ? AND version <> ?`, ns.Name, ns.Version)
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
