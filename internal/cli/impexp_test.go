package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/iotracker/internal/tracker"
)

const importDoc = `{
  "version": 1,
  "timestamp": "2026-02-01T08:00:00.000Z",
  "config": {"inputLabel": "Write", "outputLabel": "Post", "dailyGoal": 3},
  "data": {"2026-01-05": {"hours": 4, "output": true}}
}`

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExport_Stdout(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: `{"2026-01-05":{"hours":2,"output":false}}`})
	cmd := &ExportCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var doc tracker.ExportDocument
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "2026-03-01T12:00:00.000Z", doc.Timestamp)
	assert.Equal(t, tracker.Ledger{"2026-01-05": {Hours: 2}}, doc.Data)
}

func TestExport_File(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: `{"2026-01-05":{"hours":2,"output":false}}`})
	out := filepath.Join(t.TempDir(), "backup.json")
	cmd := &ExportCommand{globals: &GlobalFlags{}, Out: out}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Contains(t, output, "Exported 1 entries to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	fresh, _ := newTestEnv(t, nil)
	require.True(t, fresh.tracker.Import(context.Background(), string(data)))
	assert.Equal(t, e.tracker.Ledger(), fresh.tracker.Ledger())
}

func TestImport_Applies(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: `{"2026-06-01":{"hours":8,"output":false}}`})
	cmd := &ImportCommand{globals: &GlobalFlags{}, File: writeImportFile(t, importDoc)}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	assert.Contains(t, output, "Imported 1 entries")
	assert.Equal(t, tracker.Ledger{"2026-01-05": {Hours: 4, Output: true}}, e.tracker.Ledger())
	assert.Equal(t, "Write", e.tracker.Config().InputLabel)
}

func TestImport_DryRun(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	cmd := &ImportCommand{globals: &GlobalFlags{}, File: writeImportFile(t, importDoc), DryRun: true}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	assert.Contains(t, output, "--- current")
	assert.Contains(t, output, "+++ import")
	assert.Contains(t, output, `+    "inputLabel": "Write",`)
	assert.Empty(t, e.tracker.Ledger())
	assert.Equal(t, tracker.DefaultConfig(), e.tracker.Config())
}

func TestImport_DryRunNoChanges(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	cmd := &ImportCommand{globals: &GlobalFlags{}, File: writeImportFile(t, mustExport(t, e)), DryRun: true}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Equal(t, "No changes.\n", output)
}

func TestImport_DryRunJSON(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	cmd := &ImportCommand{globals: &GlobalFlags{JSON: true}, File: writeImportFile(t, importDoc), DryRun: true}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var result struct {
		Diff    string `json:"diff"`
		Changed bool   `json:"changed"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.True(t, result.Changed)
	assert.Contains(t, result.Diff, "+++ import")
	assert.Empty(t, e.tracker.Ledger())

	cmd.File = writeImportFile(t, mustExport(t, e))
	output = captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.False(t, result.Changed)
	assert.Empty(t, result.Diff)
}

func TestImport_InvalidLeavesState(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: `{"2026-01-05":{"hours":2,"output":false}}`})
	before := e.tracker.Ledger()
	cmd := &ImportCommand{globals: &GlobalFlags{}, File: writeImportFile(t, `{}`)}

	err := cmd.executeWith(context.Background(), e)
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrInvalidImport)
	assert.Equal(t, before, e.tracker.Ledger())
}

func TestImport_RequiresFile(t *testing.T) {
	err := (&ImportCommand{globals: &GlobalFlags{}}).Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--file is required")
}

func TestImport_MissingFile(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	cmd := &ImportCommand{globals: &GlobalFlags{}, File: filepath.Join(t.TempDir(), "nope.json")}
	assert.Error(t, cmd.executeWith(context.Background(), e))
}
