package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runnerr0/iotracker/internal/tracker"
)

func TestSummarize(t *testing.T) {
	ledger := tracker.Ledger{
		"2026-01-01": {Hours: 3, Output: false},
		"2026-01-02": {Hours: 1, Output: true},
	}

	s := Summarize(ledger, 2)
	assert.Equal(t, 1, s.GoalDaysMet)
	assert.Equal(t, 1, s.OutputsShipped)
	assert.Equal(t, 4.0, s.TotalHours)
	assert.Equal(t, 3.0, s.MaxHours)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, 2))
	assert.Equal(t, Summary{}, Summarize(tracker.Ledger{}, 2))
}

func TestSummarize_GoalBoundaryAndForeignYears(t *testing.T) {
	ledger := tracker.Ledger{
		"2025-12-31": {Hours: 2},
		"2026-05-05": {Hours: 1.99},
		"2027-01-01": {Hours: 24, Output: true},
	}

	s := Summarize(ledger, 2)
	assert.Equal(t, 2, s.GoalDaysMet)
	assert.Equal(t, 1, s.OutputsShipped)
	assert.InDelta(t, 27.99, s.TotalHours, 1e-9)
	assert.Equal(t, 24.0, s.MaxHours)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1.0 / 3, 0.33},
		{2.0 / 3, 0.67},
		{0.125, 0.13},
		{4, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
	assert.Equal(t, 0.0, mean(10, 0))
}
