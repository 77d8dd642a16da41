package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/iotracker/internal/day"
	"github.com/runnerr0/iotracker/internal/stats"
	"github.com/runnerr0/iotracker/internal/tracker"
)

// entryJSON is the JSON output of the entry commands.
type entryJSON struct {
	Day    string     `json:"day"`
	Hours  float64    `json:"hours"`
	Output bool       `json:"output"`
	Cell   stats.Cell `json:"cell"`
}

// withEnv opens the environment, runs fn and closes it.
func withEnv(g *GlobalFlags, fn func(ctx context.Context, e *env) error) error {
	ctx := context.Background()
	e, err := openEnv(ctx, g)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

// Execute implements the go-flags Commander interface for SetCommand.
func (c *SetCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *SetCommand) executeWith(ctx context.Context, e *env) error {
	d, err := parseDay(c.Args.Day, e.today())
	if err != nil {
		return err
	}
	if err := e.tracker.SetHours(ctx, d.String(), c.Args.Hours); err != nil {
		return fmt.Errorf("set hours: %w", err)
	}
	return printEntry(c.globals, e, d)
}

// Execute implements the go-flags Commander interface for AdjustCommand.
func (c *AdjustCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *AdjustCommand) executeWith(ctx context.Context, e *env) error {
	d, err := parseDay(c.Args.Day, e.today())
	if err != nil {
		return err
	}
	if err := e.tracker.AdjustHours(ctx, d.String(), c.Args.Delta); err != nil {
		return fmt.Errorf("adjust hours: %w", err)
	}
	return printEntry(c.globals, e, d)
}

// Execute implements the go-flags Commander interface for ShipCommand.
func (c *ShipCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *ShipCommand) executeWith(ctx context.Context, e *env) error {
	d, err := parseDay(c.Args.Day, e.today())
	if err != nil {
		return err
	}
	if err := e.tracker.ToggleOutput(ctx, d.String()); err != nil {
		return fmt.Errorf("toggle output: %w", err)
	}
	return printEntry(c.globals, e, d)
}

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *ShowCommand) executeWith(ctx context.Context, e *env) error {
	d, err := parseDay(c.Args.Day, e.today())
	if err != nil {
		return err
	}
	return printEntry(c.globals, e, d)
}

func printEntry(g *GlobalFlags, e *env, d day.Date) error {
	entry := e.tracker.Entry(d.String())
	cfg := e.tracker.Config()
	cell := stats.Classify(entry, cfg)

	if g != nil && g.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entryJSON{Day: d.String(), Hours: entry.Hours, Output: entry.Output, Cell: cell})
	}

	fmt.Printf("%s  (%s)\n", formatEntry(d, entry, cfg), goalNote(entry, cfg))
	if d.Year() != e.year() {
		fmt.Printf("note: %s is outside target year %d\n", d, e.year())
	}
	return nil
}

// goalNote describes how a day compares with the daily goal.
func goalNote(entry tracker.Entry, cfg tracker.Config) string {
	if entry.Hours >= cfg.DailyGoal {
		return "goal met"
	}
	return fmt.Sprintf("%s short of goal", formatHours(cfg.DailyGoal-entry.Hours))
}
