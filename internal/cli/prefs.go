package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/runnerr0/iotracker/internal/tracker"
)

// Execute implements the go-flags Commander interface for ConfigCommand.
func (c *ConfigCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

// patch collects the preference flags that were given.
func (c *ConfigCommand) patch() (tracker.ConfigPatch, error) {
	var p tracker.ConfigPatch
	if c.InputLabel != "" {
		p.InputLabel = &c.InputLabel
	}
	if c.OutputLabel != "" {
		p.OutputLabel = &c.OutputLabel
	}
	if c.DailyGoal != "" {
		goal, err := strconv.ParseFloat(c.DailyGoal, 64)
		if err != nil {
			return p, fmt.Errorf("invalid --daily-goal %q", c.DailyGoal)
		}
		p.DailyGoal = &goal
	}
	if c.ViewMode != "" {
		m := tracker.ViewMode(c.ViewMode)
		p.ViewMode = &m
	}
	if c.Theme != "" {
		t := tracker.Theme(c.Theme)
		p.Theme = &t
	}
	return p, nil
}

func (c *ConfigCommand) executeWith(ctx context.Context, e *env) error {
	if c.CycleTheme && c.Theme != "" {
		return fmt.Errorf("--theme and --cycle-theme are mutually exclusive")
	}

	p, err := c.patch()
	if err != nil {
		return err
	}
	if p != (tracker.ConfigPatch{}) {
		if err := e.tracker.UpdateConfig(ctx, p); err != nil {
			return fmt.Errorf("update config: %w", err)
		}
	}
	if c.CycleTheme {
		if _, err := e.tracker.CycleTheme(ctx); err != nil {
			return fmt.Errorf("cycle theme: %w", err)
		}
	}

	cfg := e.tracker.Config()
	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	theme := cfg.Theme.Info()
	fmt.Printf("Input label:   %s\n", cfg.InputLabel)
	fmt.Printf("Output label:  %s\n", cfg.OutputLabel)
	fmt.Printf("Daily goal:    %s\n", formatHours(cfg.DailyGoal))
	fmt.Printf("View mode:     %s\n", cfg.ViewMode)
	fmt.Printf("Theme:         %s (%s)\n", theme.Label, theme.Hex)
	return nil
}
