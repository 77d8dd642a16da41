package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/iotracker/internal/storage"
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openTestTracker loads a tracker over kv seeded with the given blobs.
func openTestTracker(t *testing.T, seed map[string]string) (*Tracker, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	for k, v := range seed {
		require.NoError(t, kv.Set(ctx, k, v))
	}
	tr := Load(ctx, kv, WithLogger(quietLogger()), WithClock(func() time.Time { return fixedNow }))
	return tr, kv
}

func stored(t *testing.T, kv KV, key string) string {
	t.Helper()
	v, ok, err := kv.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "key %s should be stored", key)
	return v
}

// flakyKV wraps a KV and fails writes while failSet is true, or writes to
// failKey only when it is set.
type flakyKV struct {
	KV
	failSet bool
	failGet bool
	failKey string
}

var errDisk = errors.New("disk full")

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failSet || (f.failKey != "" && key == f.failKey) {
		return errDisk
	}
	return f.KV.Set(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	d, ok := f.KV.(Deleter)
	if !ok {
		return errors.New("delete unsupported")
	}
	return d.Delete(ctx, key)
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errDisk
	}
	return f.KV.Get(ctx, key)
}
