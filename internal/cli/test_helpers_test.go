package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/iotracker/internal/config"
	"github.com/runnerr0/iotracker/internal/storage"
	"github.com/runnerr0/iotracker/internal/tracker"
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() { os.Stdout = old }()
	fn()

	w.Close()
	return <-done
}

// newTestEnv builds an environment over an in-memory store seeded with the
// given blobs and a tracker pinned to fixedNow.
func newTestEnv(t *testing.T, seed map[string]string) (*env, *storage.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	for k, v := range seed {
		require.NoError(t, store.Set(ctx, k, v))
	}

	tr := tracker.Load(ctx, store,
		tracker.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		tracker.WithClock(func() time.Time { return fixedNow }))

	return &env{cfg: config.DefaultConfig(), store: store, tracker: tr}, store
}

// writeTestConfig writes a config file pointing storage at a temp dir and
// returns its path.
func writeTestConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "tracker:\n  target_year: 2026\n" +
		"storage:\n  backend: " + backend + "\n  path: " + dir + "\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
