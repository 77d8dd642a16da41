package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/iotracker/internal/stats"
	"github.com/runnerr0/iotracker/internal/tracker"
)

const chartSeed = `{"2026-02-27":{"hours":2,"output":false},"2026-02-28":{"hours":4,"output":true},"2026-03-01":{"hours":1,"output":false}}`

func TestChart_DailyWindow(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: chartSeed})
	cmd := &ChartCommand{globals: &GlobalFlags{}, Mode: "daily", Last: 3}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Daily Deep Work, 2026 (average 0.12h)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2026-02-27  Feb 27       2h  ####################"))
	assert.Contains(t, lines[2], strings.Repeat("#", barWidth)+"  * shipped")
	assert.True(t, strings.HasPrefix(lines[3], "2026-03-01"))
}

func TestChart_BuildJSON(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: chartSeed})
	cmd := &ChartCommand{globals: &GlobalFlags{JSON: true}, Mode: "build", Last: 3}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var s stats.Series
	require.NoError(t, json.Unmarshal([]byte(output), &s))
	assert.Equal(t, stats.ModeBuild, s.Mode)
	require.Len(t, s.Points, 3)
	assert.Equal(t, 2.0, s.Points[0].Hours)
	assert.Equal(t, 6.0, s.Points[1].Hours)
	assert.Equal(t, 1.0, s.Points[2].Hours)
}

func TestChart_WeeklyWholeYear(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: chartSeed})
	cmd := &ChartCommand{globals: &GlobalFlags{JSON: true}, Mode: "weekly"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var s stats.Series
	require.NoError(t, json.Unmarshal([]byte(output), &s))
	assert.Len(t, s.Points, 53)
}

func TestChart_WeeklyWindowEndsAtCurrentWeek(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: chartSeed})
	cmd := &ChartCommand{globals: &GlobalFlags{JSON: true}, Mode: "weekly", Last: 2}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	var s stats.Series
	require.NoError(t, json.Unmarshal([]byte(output), &s))
	require.Len(t, s.Points, 2)
	assert.Equal(t, "2026-02-16", s.Points[0].DayKey)
	assert.Equal(t, "2026-02-23", s.Points[1].DayKey, "Sunday today falls in the week of Feb 23")
	assert.Equal(t, 7.0, s.Points[1].Hours)
	assert.False(t, s.Points[1].IsFuture)
}

func TestChart_Rejects(t *testing.T) {
	e, _ := newTestEnv(t, nil)

	err := (&ChartCommand{globals: &GlobalFlags{}, Mode: "monthly"}).executeWith(context.Background(), e)
	assert.Error(t, err)

	err = (&ChartCommand{globals: &GlobalFlags{}, Mode: "daily", Last: -1}).executeWith(context.Background(), e)
	assert.Error(t, err)
}

func TestHeatmap_Grid(t *testing.T) {
	e, _ := newTestEnv(t, map[string]string{tracker.KeyData: chartSeed})
	cmd := &HeatmapCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	lines := strings.Split(output, "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	assert.Equal(t, "2026  Deep Work / Publish Project  (goal view)", lines[0])

	// 2026-01-01 is a Thursday: the first column is blank until then.
	assert.Equal(t, "Mon  .", lines[1][:6])
	assert.Equal(t, "Thu .", lines[4][:5])

	// Feb 27, 28 and Mar 1 are Fri, Sat, Sun of week 9.
	assert.Equal(t, byte('#'), lines[5][4+8])
	assert.Equal(t, byte('*'), lines[6][4+8])
	assert.Equal(t, byte('@'), lines[7][4+8])
	assert.Contains(t, output, "legend:")
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, byte(' '), glyph(stats.HeatCell{}))
	assert.Equal(t, byte('.'), glyph(stats.HeatCell{InYear: true, Cell: stats.Cell{State: stats.CellEmpty}}))
	assert.Equal(t, byte('+'), glyph(stats.HeatCell{InYear: true, Cell: stats.Cell{State: stats.CellPartial}}))
	assert.Equal(t, byte('4'), glyph(stats.HeatCell{InYear: true, Cell: stats.Cell{State: stats.CellIntensity, Level: 4}}))
	assert.Equal(t, byte('@'), glyph(stats.HeatCell{InYear: true, Today: true, Cell: stats.Cell{State: stats.CellShipped}}))
}
