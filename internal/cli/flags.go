package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StatusCommand shows ledger statistics, preferences and storage health.
type StatusCommand struct {
	Recent int `long:"recent" description:"Number of recent actions to list" default:"5"`

	globals *GlobalFlags
	version string
}

// dayArg is the single DAY positional of ship and show.
type dayArg struct {
	Day string `positional-arg-name:"DAY" description:"YYYY-MM-DD or today" required:"yes"`
}

// SetCommand records the hours worked on a day.
type SetCommand struct {
	Args struct {
		Day   string  `positional-arg-name:"DAY" description:"YYYY-MM-DD or today" required:"yes"`
		Hours float64 `positional-arg-name:"HOURS" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
}

// AdjustCommand nudges the hours of a day by a delta. Negative deltas go
// after "--", e.g. adjust -- today -0.5.
type AdjustCommand struct {
	Args struct {
		Day   string  `positional-arg-name:"DAY" description:"YYYY-MM-DD or today" required:"yes"`
		Delta float64 `positional-arg-name:"DELTA" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
}

// ShipCommand toggles the output flag of a day.
type ShipCommand struct {
	Args dayArg `positional-args:"yes"`

	globals *GlobalFlags
}

// ShowCommand prints one day.
type ShowCommand struct {
	Args dayArg `positional-args:"yes"`

	globals *GlobalFlags
}

// ConfigCommand prints or updates the tracker preferences.
type ConfigCommand struct {
	InputLabel  string `long:"input-label" description:"Label of the tracked effort"`
	OutputLabel string `long:"output-label" description:"Label of the shipped milestone"`
	DailyGoal   string `long:"daily-goal" description:"Hours that make a goal-met day"`
	ViewMode    string `long:"view-mode" description:"Heatmap coloring: goal | intensity"`
	Theme       string `long:"theme" description:"Accent theme: red | orange | amber | green | blue | violet | pink"`
	CycleTheme  bool   `long:"cycle-theme" description:"Advance to the next theme"`

	globals *GlobalFlags
}

// ChartCommand prints a chart series for the target year.
type ChartCommand struct {
	Mode string `long:"mode" description:"Projection: daily | weekly | build" default:"daily"`
	Last int    `long:"last" description:"Only the N points ending today (0 for the whole year)" default:"0"`

	globals *GlobalFlags
}

// HeatmapCommand prints the year grid.
type HeatmapCommand struct {
	globals *GlobalFlags
}

// ExportCommand writes the export document.
type ExportCommand struct {
	Out string `long:"out" description:"Write to file instead of stdout"`

	globals *GlobalFlags
}

// ImportCommand restores an export document.
type ImportCommand struct {
	File   string `long:"file" description:"Export document to import (required)"`
	DryRun bool   `long:"dry-run" description:"Show the changes without importing"`

	globals *GlobalFlags
}

// PurgeCommand deletes all tracker data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	in      io.Reader // confirmation input; nil means os.Stdin
}
