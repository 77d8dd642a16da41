package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/iotracker/internal/tracker"
)

func TestConfig_Show(t *testing.T) {
	e, _ := newTestEnv(t, nil)
	cmd := &ConfigCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	assert.Contains(t, output, "Input label:   Deep Work")
	assert.Contains(t, output, "Output label:  Publish Project")
	assert.Contains(t, output, "Daily goal:    2h")
	assert.Contains(t, output, "View mode:     goal")
	assert.Contains(t, output, "Theme:         Red (#dc2626)")
}

func TestConfig_Update(t *testing.T) {
	e, store := newTestEnv(t, nil)
	cmd := &ConfigCommand{
		globals:     &GlobalFlags{JSON: true},
		OutputLabel: "Ship It",
		DailyGoal:   "3.5",
		ViewMode:    "intensity",
		Theme:       "violet",
	}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var got tracker.Config
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, tracker.Config{
		InputLabel:  "Deep Work",
		OutputLabel: "Ship It",
		DailyGoal:   3.5,
		ViewMode:    tracker.ViewIntensity,
		Theme:       tracker.ThemeViolet,
	}, got)

	theme, ok, err := store.Get(context.Background(), tracker.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "violet", theme)
}

func TestConfig_CycleTheme(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyTheme: "pink"})
	cmd := &ConfigCommand{globals: &GlobalFlags{}, CycleTheme: true}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	assert.Equal(t, tracker.ThemeRed, e.tracker.Config().Theme)
	assert.Contains(t, output, "Theme:         Red")
}

func TestConfig_Rejects(t *testing.T) {
	tests := map[string]*ConfigCommand{
		"goal not a number": {DailyGoal: "lots"},
		"goal zero":         {DailyGoal: "0"},
		"view mode":         {ViewMode: "calendar"},
		"theme":             {Theme: "teal"},
		"theme and cycle":   {Theme: "blue", CycleTheme: true},
	}
	for name, cmd := range tests {
		t.Run(name, func(t *testing.T) {
			e, _ := newTestEnv(t, nil)
			cmd.globals = &GlobalFlags{}

			assert.Error(t, cmd.executeWith(context.Background(), e))
			assert.Equal(t, tracker.DefaultConfig(), e.tracker.Config())
		})
	}
}
