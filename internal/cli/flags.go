package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to YAML config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Seed    uint64 `long:"seed" description:"Generator seed; 0 keeps the configured one"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// RangeFlags selects the date range. --start/--end without --range imply a
// custom range.
type RangeFlags struct {
	Range string `long:"range" description:"Range token: 7days, 30days, quarter, 6M, 1Y, ALL, custom"`
	Start string `long:"start" description:"Custom range start (YYYY-MM-DD)"`
	End   string `long:"end" description:"Custom range end (YYYY-MM-DD)"`
}

// SeriesCommand prints one generated series.
type SeriesCommand struct {
	Kind   string `long:"kind" description:"bookings | revenue | occupancy | channels | room_types | room_status" default:"bookings"`
	Limit  int    `long:"limit" description:"Maximum samples" default:"0"`
	Offset int    `long:"offset" description:"Skip first N samples" default:"0"`
	RangeFlags

	globals *GlobalFlags
	out     io.Writer
}

// ChannelsCommand prints booking channel shares with normalized percents.
type ChannelsCommand struct {
	RangeFlags

	globals *GlobalFlags
	out     io.Writer
}

// SummaryCommand prints the report cards, compared with the previous window.
type SummaryCommand struct {
	RangeFlags

	globals *GlobalFlags
	out     io.Writer
}

// ExportCommand builds the report and sends it to the configured sink.
type ExportCommand struct {
	RangeFlags

	globals *GlobalFlags
	out     io.Writer
}
