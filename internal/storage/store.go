package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getValue    *sql.Stmt
	setValue    *sql.Stmt
	deleteValue *sql.Stmt
	insertAudit *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getValue, err = s.db.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	s.setValue, err = s.db.Prepare(`
		INSERT INTO kv (key, value, byte_size, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			byte_size  = excluded.byte_size,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	s.deleteValue, err = s.db.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	s.insertAudit, err = s.db.Prepare(`
		INSERT INTO audit_log (action, detail, ts) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// Get returns the blob stored under key. ok is false when the key is absent.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.getValue.QueryRowContext(ctx, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous blob.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.setValue.ExecContext(ctx, key, value, len(value), ts); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.deleteValue.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys in ascending order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LogAction appends an entry to the audit log.
func (s *SQLiteStore) LogAction(ctx context.Context, action, detail string) error {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.insertAudit.ExecContext(ctx, action, detail, ts); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// RecentActions returns up to limit audit entries, newest first.
func (s *SQLiteStore) RecentActions(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, action, detail, ts FROM audit_log ORDER BY id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		var tsStr string
		if err := rows.Scan(&e.ID, &e.Action, &e.Detail, &tsStr); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Timestamp, _ = parseTimestamp(tsStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Backend: "sqlite"}

	var bytes sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), SUM(byte_size) FROM kv").Scan(&stats.Keys, &bytes)
	if err != nil {
		return nil, fmt.Errorf("count keys: %w", err)
	}
	stats.ValueBytes = bytes.Int64

	if stats.Keys > 0 {
		var lastStr string
		if err := s.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM kv").Scan(&lastStr); err != nil {
			return nil, fmt.Errorf("last write: %w", err)
		}
		stats.LastWrite, _ = parseTimestamp(lastStr)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log").Scan(&stats.AuditEntries)
	if err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	return stats, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.getValue, s.setValue, s.deleteValue, s.insertAudit,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
