package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/iotracker/internal/tracker"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}
	if err := c.confirm(); err != nil {
		return err
	}
	return withEnv(c.globals, c.executeWith)
}

// confirm prompts for the confirmation text unless --force is given.
func (c *PurgeCommand) confirm() error {
	if c.Force {
		return nil
	}

	fmt.Println("⚠ WARNING: This will permanently delete ALL tracker data.")
	fmt.Println("  - All daily entries")
	fmt.Println("  - All preferences and the theme")
	fmt.Println()
	fmt.Println("This action cannot be undone. Consider running export first.")
	fmt.Println()
	fmt.Print(`Type "PURGE" to confirm: `)

	var in io.Reader = os.Stdin
	if c.in != nil {
		in = c.in
	}
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != "PURGE" {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}

func (c *PurgeCommand) executeWith(ctx context.Context, e *env) error {
	keys, err := e.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, tracker.KeyPrefix) {
			continue
		}
		if err := e.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("purge failed: %w", err)
		}
	}
	if err := e.store.LogAction(ctx, "purge", ""); err != nil {
		return fmt.Errorf("record purge: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"purged":  true,
			"message": "all data deleted",
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Println("Purged all data. The tracker is empty.")
	return nil
}
