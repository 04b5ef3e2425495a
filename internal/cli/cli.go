package cli

import (
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

type commands struct {
	Series   *SeriesCommand
	Channels *ChannelsCommand
	Summary  *SummaryCommand
	Export   *ExportCommand
}

func buildParser(out io.Writer) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "hotelctl"
	parser.LongDescription = "Generate the hotel dashboard's synthetic analytics from the terminal."

	cmds := &commands{
		Series:   &SeriesCommand{globals: &globals, out: out},
		Channels: &ChannelsCommand{globals: &globals, out: out},
		Summary:  &SummaryCommand{globals: &globals, out: out},
		Export:   &ExportCommand{globals: &globals, out: out},
	}

	parser.AddCommand("series", "Print a generated series", "Print one series (bookings, revenue, occupancy, channels, room_types, room_status) for a range.", cmds.Series)
	parser.AddCommand("channels", "Print booking channel shares", "Print booking channel values with percents normalized to 100.", cmds.Channels)
	parser.AddCommand("summary", "Print report cards", "Print revenue, occupancy, ADR and bookings compared with the previous window.", cmds.Summary)
	parser.AddCommand("export", "Send a report to the sink", "Build the full report for a range and POST it to the configured sink.", cmds.Export)

	return parser, &globals, cmds
}

// Run parses os.Args and executes the matched subcommand.
func Run(version string) error {
	return run(version, os.Args[1:], os.Stdout)
}

// RunWithArgs parses args and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	return run(version, args, os.Stdout)
}

func run(version string, args []string, out io.Writer) error {
	for _, arg := range args {
		if arg == "--version" {
			fmt.Fprintf(out, "hotelctl %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(out)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}
