package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: ":memory:" databases are per connection, and writes stay serialized
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA journal_mode = WAL;

-- Namespaced, versioned key/value rows. One row per (namespace, version, key):
-- product snapshots keyed by source, session state keyed by sid.
CREATE TABLE IF NOT EXISTS kv(
  namespace  TEXT NOT NULL,
  version    INTEGER NOT NULL,
  key        TEXT NOT NULL,
  value      BLOB NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(namespace, version, key)
);
CREATE INDEX IF NOT EXISTS idx_kv_updated_at ON kv(updated_at);
`
	_, err := db.Exec(schema)
	return err
}
