package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *ExportCommand) executeWith(ctx context.Context, e *env) error {
	doc, err := e.tracker.Export()
	if err != nil {
		return err
	}

	if c.Out == "" {
		fmt.Println(doc)
		return nil
	}

	if err := os.WriteFile(c.Out, []byte(doc+"\n"), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if c.globals != nil && c.globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"exported": true,
			"file":     c.Out,
			"entries":  len(e.tracker.Ledger()),
		})
	}
	fmt.Printf("Exported %d entries to %s\n", len(e.tracker.Ledger()), c.Out)
	return nil
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required for import command")
	}
	return withEnv(c.globals, c.executeWith)
}

func (c *ImportCommand) executeWith(ctx context.Context, e *env) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	text := string(data)

	if c.DryRun {
		diff, err := e.tracker.Diff(text)
		if err != nil {
			return err
		}
		if c.globals != nil && c.globals.JSON {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"diff":    diff,
				"changed": diff != "",
			})
		}
		if diff == "" {
			fmt.Println("No changes.")
			return nil
		}
		fmt.Print(diff)
		return nil
	}

	if err := e.tracker.ImportDocument(ctx, text); err != nil {
		return err
	}

	n := len(e.tracker.Ledger())
	if c.globals != nil && c.globals.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"imported": true,
			"entries":  n,
		})
	}
	fmt.Printf("Imported %d entries from %s\n", n, c.File)
	return nil
}
