package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for ChannelsCommand.
func (c *ChannelsCommand) Execute(args []string) error {
	sel, err := c.selector()
	if err != nil {
		return err
	}
	e, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	shares, err := e.reports.Channels(context.Background(), sel)
	if err != nil {
		return err
	}
	if wantJSON(c.globals) {
		return printJSON(c.out, map[string]any{"range": sel, "channels": shares})
	}

	fmt.Fprintf(c.out, "Booking channels (%s)\n", sel)
	for _, sh := range shares {
		fmt.Fprintf(c.out, "  %-16s %6.0f %7.2f%%\n", sh.Name, sh.Value, sh.Percent)
	}
	return nil
}
