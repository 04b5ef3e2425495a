package cli

import (
	"context"
	"fmt"

	"github.com/AngelCh415/hotel-analytics/internal/models"
)

// Execute implements the go-flags Commander interface for SummaryCommand.
func (c *SummaryCommand) Execute(args []string) error {
	sel, err := c.selector()
	if err != nil {
		return err
	}
	e, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	sum, err := e.reports.Summary(context.Background(), sel)
	if err != nil {
		return err
	}
	if wantJSON(c.globals) {
		return printJSON(c.out, sum)
	}

	fmt.Fprintf(c.out, "Summary (%s)\n", sel)
	for _, k := range []models.KPI{sum.TotalRevenue, sum.AvgOccupancy, sum.ADR, sum.TotalBookings} {
		fmt.Fprintf(c.out, "  %-20s %12.2f  %+7.2f%%\n", k.Label, k.Value, k.Change)
	}
	return nil
}
