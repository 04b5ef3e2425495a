package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/hotel-analytics/internal/generator"
	"github.com/AngelCh415/hotel-analytics/internal/models"
)

// Execute implements the go-flags Commander interface for SeriesCommand.
func (c *SeriesCommand) Execute(args []string) error {
	kind := models.Kind(strings.TrimSpace(c.Kind))
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", generator.ErrUnknownKind, c.Kind)
	}
	e, err := newEnv(c.globals)
	if err != nil {
		return err
	}

	v := c.values()
	c.page(v)
	s, err := e.reports.QuerySeries(context.Background(), kind, v)
	if err != nil {
		return err
	}
	if wantJSON(c.globals) {
		return printJSON(c.out, s)
	}

	fmt.Fprintf(c.out, "%s (%s, %d samples)\n", s.Kind, s.Range, s.Len())
	for _, smp := range s.Samples {
		fmt.Fprintf(c.out, "  %-16s %10.0f\n", smp.Label, smp.Value())
	}
	if s.Empty() {
		fmt.Fprintln(c.out, "  no samples in range")
	}
	return nil
}

func (c *SeriesCommand) page(v url.Values) {
	if c.Limit > 0 {
		v.Set("limit", strconv.Itoa(c.Limit))
	}
	if c.Offset > 0 {
		v.Set("offset", strconv.Itoa(c.Offset))
	}
}
