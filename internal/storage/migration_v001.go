package storage

import "database/sql"

// migrateV001 creates the key-value table and the audit log. Every
// statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			ts     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_kv_updated_at     ON kv(updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_ts      ON audit_log(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_action  ON audit_log(action)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrateV002 records blob sizes so status can report them without reading
// every value back.
func migrateV002(tx *sql.Tx) error {
	stmts := []string{
		`ALTER TABLE kv ADD COLUMN byte_size INTEGER NOT NULL DEFAULT 0`,
		`UPDATE kv SET byte_size = length(CAST(value AS BLOB))`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
