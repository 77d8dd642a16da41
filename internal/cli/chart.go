package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/iotracker/internal/stats"
)

const barWidth = 40

// Execute implements the go-flags Commander interface for ChartCommand.
func (c *ChartCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *ChartCommand) executeWith(ctx context.Context, e *env) error {
	mode, err := stats.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	if c.Last < 0 {
		return fmt.Errorf("--last must not be negative")
	}

	series, err := stats.Project(e.tracker.Ledger(), e.year(), e.today(), mode, time.Local)
	if err != nil {
		return err
	}
	series = series.Window(e.today(), c.Last)

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	}

	cfg := e.tracker.Config()
	fmt.Printf("%s %s, %d", strings.ToUpper(string(mode[:1]))+string(mode[1:]), cfg.InputLabel, e.year())
	if mode != stats.ModeBuild {
		fmt.Printf(" (average %s)", formatHours(series.Average))
	}
	fmt.Println()

	var peak float64
	for _, p := range series.Points {
		peak = math.Max(peak, p.Hours)
	}
	for _, p := range series.Points {
		fmt.Println(chartLine(p, peak))
	}
	return nil
}

// chartLine renders one point as a bar scaled against peak.
func chartLine(p stats.Point, peak float64) string {
	n := 0
	if peak > 0 {
		n = int(math.Round(p.Hours / peak * barWidth))
	}
	bar := strings.Repeat("#", n)

	var marks []string
	if p.Output {
		marks = append(marks, "* shipped")
	}
	if p.IsFuture {
		marks = append(marks, "future")
	}
	line := fmt.Sprintf("%s  %-7s %7s  %-*s", p.DayKey, p.DisplayLabel, formatHours(p.Hours), barWidth, bar)
	if len(marks) > 0 {
		line += "  " + strings.Join(marks, ", ")
	}
	return strings.TrimRight(line, " ")
}
