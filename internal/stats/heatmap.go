package stats

import (
	"github.com/runnerr0/iotracker/internal/day"
	"github.com/runnerr0/iotracker/internal/tracker"
)

// CellState is how a heatmap cell is colored.
type CellState string

const (
	CellEmpty     CellState = "empty"
	CellPartial   CellState = "partial"
	CellGoal      CellState = "goal"
	CellShipped   CellState = "shipped"
	CellIntensity CellState = "intensity"
)

// Cell is the classification of one day.
type Cell struct {
	State   CellState `json:"state"`
	Level   int       `json:"level,omitempty"`
	Opacity float64   `json:"opacity,omitempty"`
}

var intensityOpacity = [...]float64{0.2, 0.4, 0.6, 0.8, 1.0}

// Classify maps an entry to a cell under cfg's view mode. A shipped output
// always wins; otherwise a day with hours is either goal-met or partial in
// goal mode, or one of five intensity levels scaled by the daily goal.
func Classify(e tracker.Entry, cfg tracker.Config) Cell {
	switch {
	case e.Output:
		return Cell{State: CellShipped}
	case e.Hours <= 0:
		return Cell{State: CellEmpty}
	case cfg.ViewMode == tracker.ViewIntensity:
		lvl := IntensityLevel(e.Hours, cfg.DailyGoal)
		return Cell{State: CellIntensity, Level: lvl, Opacity: intensityOpacity[lvl-1]}
	case e.Hours >= cfg.DailyGoal:
		return Cell{State: CellGoal}
	default:
		return Cell{State: CellPartial}
	}
}

// IntensityLevel returns 1..5 for hours measured in multiples of goal.
// A non-positive goal counts as 1.
func IntensityLevel(hours, goal float64) int {
	if goal <= 0 {
		goal = 1
	}
	for lvl := 1; lvl < len(intensityOpacity); lvl++ {
		if hours < goal*float64(lvl) {
			return lvl
		}
	}
	return len(intensityOpacity)
}

// HeatCell is one day of the heatmap grid.
type HeatCell struct {
	DayKey string        `json:"dayKey"`
	Entry  tracker.Entry `json:"entry"`
	Cell   Cell          `json:"cell"`
	InYear bool          `json:"inYear"`
	Today  bool          `json:"today"`
}

// Heatmap lays year out as Monday-start weeks, from the Monday on or
// before January 1st to the Sunday on or after December 31st. Padding
// days outside the year are flagged and left empty.
func Heatmap(ledger tracker.Ledger, cfg tracker.Config, year int, today day.Date) [][]HeatCell {
	target := day.Year(year)
	days := target.Weeks().Days()

	weeks := make([][]HeatCell, 0, len(days)/7)
	for i := 0; i < len(days); i += 7 {
		week := make([]HeatCell, 7)
		for j, d := range days[i : i+7] {
			key := d.String()
			c := HeatCell{DayKey: key, InYear: target.Contains(d), Today: d == today}
			if c.InYear {
				c.Entry = ledger[key]
			}
			c.Cell = Classify(c.Entry, cfg)
			week[j] = c
		}
		weeks = append(weeks, week)
	}
	return weeks
}
