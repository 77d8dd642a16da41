package storage

import (
	"context"
	"time"
)

// Store is a key-value store of opaque string blobs with an append-only
// audit trail. The tracker only needs Get and Set; the rest serves the CLI.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	LogAction(ctx context.Context, action, detail string) error
	RecentActions(ctx context.Context, limit int) ([]AuditEntry, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// AuditEntry records one state-changing action such as an import.
type AuditEntry struct {
	ID        int64
	Action    string
	Detail    string
	Timestamp time.Time
}

// Stats holds aggregate statistics about a store.
type Stats struct {
	Keys         int64
	ValueBytes   int64
	LastWrite    time.Time
	AuditEntries int64
	Backend      string
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
