package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/iotracker/internal/stats"
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Execute implements the go-flags Commander interface for HeatmapCommand.
func (c *HeatmapCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *HeatmapCommand) executeWith(ctx context.Context, e *env) error {
	cfg := e.tracker.Config()
	weeks := stats.Heatmap(e.tracker.Ledger(), cfg, e.year(), e.today())

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(weeks)
	}

	fmt.Printf("%d  %s / %s  (%s view)\n", e.year(), cfg.InputLabel, cfg.OutputLabel, cfg.ViewMode)
	for row := 0; row < 7; row++ {
		var b strings.Builder
		b.WriteString(weekdayLabels[row])
		b.WriteByte(' ')
		for _, week := range weeks {
			b.WriteByte(glyph(week[row]))
		}
		fmt.Println(strings.TrimRight(b.String(), " "))
	}
	fmt.Println()
	fmt.Println("legend: . none  + partial  # goal  1-5 intensity  * shipped  @ today")
	return nil
}

// glyph is the character drawn for one heatmap cell.
func glyph(c stats.HeatCell) byte {
	switch {
	case !c.InYear:
		return ' '
	case c.Today:
		return '@'
	}
	switch c.Cell.State {
	case stats.CellShipped:
		return '*'
	case stats.CellGoal:
		return '#'
	case stats.CellPartial:
		return '+'
	case stats.CellIntensity:
		return byte('0' + c.Cell.Level)
	default:
		return '.'
	}
}
