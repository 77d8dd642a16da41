package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status  *StatusCommand
	Set     *SetCommand
	Adjust  *AdjustCommand
	Ship    *ShipCommand
	Show    *ShowCommand
	Config  *ConfigCommand
	Chart   *ChartCommand
	Heatmap *HeatmapCommand
	Export  *ExportCommand
	Import  *ImportCommand
	Purge   *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "iotracker"
	parser.LongDescription = "Daily input/output ledger: log hours of effort, mark shipped outputs, chart the year."

	cmds := &commands{
		Status:  &StatusCommand{globals: &globals, version: version},
		Set:     &SetCommand{globals: &globals},
		Adjust:  &AdjustCommand{globals: &globals},
		Ship:    &ShipCommand{globals: &globals},
		Show:    &ShowCommand{globals: &globals},
		Config:  &ConfigCommand{globals: &globals},
		Chart:   &ChartCommand{globals: &globals},
		Heatmap: &HeatmapCommand{globals: &globals},
		Export:  &ExportCommand{globals: &globals},
		Import:  &ImportCommand{globals: &globals},
		Purge:   &PurgeCommand{globals: &globals},
	}

	parser.AddCommand("status", "Show statistics and preferences", "Show ledger statistics, tracker preferences and storage health.", cmds.Status)
	parser.AddCommand("set", "Set the hours of a day", "Set the hours worked on DAY, clamped to 0..24.", cmds.Set)
	parser.AddCommand("adjust", "Adjust the hours of a day", "Add DELTA hours to DAY. Put negative deltas after --.", cmds.Adjust)
	parser.AddCommand("ship", "Toggle the shipped output of a day", "Toggle whether an output shipped on DAY.", cmds.Ship)
	parser.AddCommand("show", "Show one day", "Show the entry and heatmap cell of DAY.", cmds.Show)
	parser.AddCommand("config", "Show or change preferences", "Show the tracker preferences, or change them with flags.", cmds.Config)
	parser.AddCommand("chart", "Print a chart series", "Print the daily, weekly or build series of the target year.", cmds.Chart)
	parser.AddCommand("heatmap", "Print the year grid", "Print the target year as a grid of Monday-start weeks.", cmds.Heatmap)
	parser.AddCommand("export", "Export all data", "Write the export document (version 1) to stdout or a file.", cmds.Export)
	parser.AddCommand("import", "Import an export document", "Replace the ledger and merge preferences from an export document.", cmds.Import)
	parser.AddCommand("purge", "Delete ALL tracker data", "Delete ALL tracker data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the iotracker CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("iotracker %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
