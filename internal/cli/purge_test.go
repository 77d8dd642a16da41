package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/iotracker/internal/tracker"
)

func seededPurgeEnv(t *testing.T) (*env, func() []string) {
	t.Helper()
	e, store := newTestEnv(t, map[string]string{
		tracker.KeyData:    `{"2026-01-05":{"hours":2,"output":false}}`,
		tracker.KeyConfig:  `{"inputLabel":"Write"}`,
		tracker.KeyTheme:   "blue",
		"io-tracker-draft": "{}",
		"unrelated":        "kept",
	})
	keys := func() []string {
		k, err := store.Keys(context.Background())
		require.NoError(t, err)
		return k
	}
	return e, keys
}

func TestPurge_WithoutAllFlag_Errors(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestPurge_DeletesTrackerKeys(t *testing.T) {
	e, keys := seededPurgeEnv(t)
	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	assert.Contains(t, output, "Purged all data")
	assert.Equal(t, []string{"unrelated"}, keys(), "every io-tracker- key is removed")

	actions, err := e.store.RecentActions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "purge", actions[0].Action)
}

func TestPurge_JSONOutput(t *testing.T) {
	e, _ := seededPurgeEnv(t)
	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, true, result["purged"])
	assert.Equal(t, "all data deleted", result["message"])
}

func TestPurge_Confirmation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"matches", "PURGE\n", ""},
		{"surrounding space", "  PURGE  \n", ""},
		{"wrong text", "purge\n", "confirmation text did not match"},
		{"no input", "", "no input received"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, in: strings.NewReader(tt.input)}

			var err error
			output := captureOutput(t, func() { err = cmd.confirm() })

			assert.Contains(t, output, `Type "PURGE" to confirm`)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPurge_ForceSkipsPrompt(t *testing.T) {
	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{}}
	output := captureOutput(t, func() { require.NoError(t, cmd.confirm()) })
	assert.Empty(t, output)
}
