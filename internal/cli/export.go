package cli

import (
	"context"
	"fmt"

	"github.com/AngelCh415/hotel-analytics/internal/export"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	sel, err := c.selector()
	if err != nil {
		return err
	}
	e, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	exp, err := export.NewExporter(export.NewHTTPClient(e.cfg.HTTPTimeout), e.reports, e.log, e.cfg.Export)
	if err != nil {
		return err
	}
	res, err := exp.Export(context.Background(), sel)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if wantJSON(c.globals) {
		return printJSON(c.out, res)
	}
	fmt.Fprintf(c.out, "Exported %s: %d samples, %d bytes sent (%d raw) in %d attempt(s)\n",
		res.Range, res.Samples, res.Sent, res.RawBytes, res.Attempts)
	return nil
}
