package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/iotracker/internal/stats"
	"github.com/runnerr0/iotracker/internal/storage"
	"github.com/runnerr0/iotracker/internal/tracker"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version       string         `json:"version"`
	TargetYear    int            `json:"target_year"`
	Today         string         `json:"today"`
	Summary       stats.Summary  `json:"summary"`
	Average       float64        `json:"average"`
	Config        tracker.Config `json:"config"`
	Backend       string         `json:"backend"`
	StoragePath   string         `json:"storage_path,omitempty"`
	StoredKeys    int64          `json:"stored_keys"`
	StoredBytes   int64          `json:"stored_bytes"`
	LastWrite     string         `json:"last_write,omitempty"`
	Migrated      int            `json:"migrated,omitempty"`
	RecentActions []actionJSON   `json:"recent_actions"`
}

type actionJSON struct {
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

// executeWith runs status against a provided environment (for testing).
func (c *StatusCommand) executeWith(ctx context.Context, e *env) error {
	st, err := e.store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	actions, err := e.store.RecentActions(ctx, c.Recent)
	if err != nil {
		return fmt.Errorf("recent actions: %w", err)
	}

	cfg := e.tracker.Config()
	ledger := e.tracker.Ledger()
	summary := stats.Summarize(ledger, cfg.DailyGoal)
	series, err := stats.Project(ledger, e.year(), e.today(), stats.ModeDaily, time.Local)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(e, summary, series.Average, cfg, st, actions)
	}
	return c.printStatusHuman(e, summary, series.Average, cfg, st, actions)
}

func (c *StatusCommand) printStatusHuman(e *env, s stats.Summary, avg float64, cfg tracker.Config, st *storage.Stats, actions []storage.AuditEntry) error {
	theme := cfg.Theme.Info()

	fmt.Println("IO Tracker Status")
	fmt.Println("=================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Target year:   %d (today %s)\n", e.year(), e.today())
	fmt.Println()
	fmt.Printf("Goal days met: %d\n", s.GoalDaysMet)
	fmt.Printf("Outputs:       %d shipped\n", s.OutputsShipped)
	fmt.Printf("Total hours:   %s\n", formatHours(s.TotalHours))
	fmt.Printf("Max hours:     %s\n", formatHours(s.MaxHours))
	fmt.Printf("Average:       %s/day\n", formatHours(avg))
	fmt.Println()
	fmt.Printf("Input:         %s\n", cfg.InputLabel)
	fmt.Printf("Output:        %s\n", cfg.OutputLabel)
	fmt.Printf("Daily goal:    %s\n", formatHours(cfg.DailyGoal))
	fmt.Printf("View mode:     %s\n", cfg.ViewMode)
	fmt.Printf("Theme:         %s (%s)\n", theme.Label, theme.Hex)
	fmt.Println()

	if e.path != "" {
		fmt.Printf("Storage:       %s (%s)\n", st.Backend, e.path)
	} else {
		fmt.Printf("Storage:       %s\n", st.Backend)
	}
	fmt.Printf("Stored:        %s keys, %s\n", formatNumber(st.Keys), formatBytes(st.ValueBytes))
	if !st.LastWrite.IsZero() {
		fmt.Printf("Last write:    %s\n", st.LastWrite.Local().Format("2006-01-02 15:04"))
	}
	if m := e.tracker.Migration(); m.Migrated > 0 {
		fmt.Printf("Migrated:      %d legacy entries\n", m.Migrated)
	}

	if len(actions) > 0 {
		fmt.Println()
		fmt.Println("Recent Actions:")
		for _, a := range actions {
			fmt.Printf("  %s  %-8s %s\n", a.Timestamp.Local().Format("2006-01-02 15:04"), a.Action, a.Detail)
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(e *env, s stats.Summary, avg float64, cfg tracker.Config, st *storage.Stats, actions []storage.AuditEntry) error {
	out := statusJSON{
		Version:       c.version,
		TargetYear:    e.year(),
		Today:         e.today().String(),
		Summary:       s,
		Average:       avg,
		Config:        cfg,
		Backend:       st.Backend,
		StoragePath:   e.path,
		StoredKeys:    st.Keys,
		StoredBytes:   st.ValueBytes,
		Migrated:      e.tracker.Migration().Migrated,
		RecentActions: make([]actionJSON, len(actions)),
	}

	if !st.LastWrite.IsZero() {
		out.LastWrite = st.LastWrite.UTC().Format(time.RFC3339)
	}

	for i, a := range actions {
		out.RecentActions[i] = actionJSON{
			Action:    a.Action,
			Detail:    a.Detail,
			Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
