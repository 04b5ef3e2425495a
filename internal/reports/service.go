package reports

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/hotel-analytics/internal/generator"
	"github.com/AngelCh415/hotel-analytics/internal/models"
)

var ErrBadQuery = errors.New("bad query")

// Synthetic share of a day's bookings that arrive / depart on that day.
const (
	checkinRatio  = 0.28
	checkoutRatio = 0.17
)

type Service struct {
	p     generator.Provider
	clock clockwork.Clock
}

func NewService(p generator.Provider, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{p: p, clock: clock}
}

// SelectorFrom reads range, start and end from a query string. Errors wrap
// ErrBadQuery.
func SelectorFrom(v url.Values) (models.RangeSelector, error) {
	sel, err := models.ParseSelector(v.Get("range"), v.Get("start"), v.Get("end"))
	if err != nil {
		return models.RangeSelector{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	return sel, nil
}

// QuerySeries generates kind for the range in v and applies limit/offset to
// the samples.
func (s *Service) QuerySeries(ctx context.Context, kind models.Kind, v url.Values) (models.Series, error) {
	sel, err := SelectorFrom(v)
	if err != nil {
		return models.Series{}, err
	}
	series, err := s.p.Series(ctx, kind, sel)
	if err != nil {
		return models.Series{}, err
	}
	limit := atoiDef(v.Get("limit"), 0)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(series.Samples))
	series.Samples = paginate(series.Samples, limit, offset)
	return series, nil
}

func (s *Service) Channels(ctx context.Context, sel models.RangeSelector) ([]models.Share, error) {
	series, err := s.p.Series(ctx, models.KindChannels, sel)
	if err != nil {
		return nil, err
	}
	return Normalize(series), nil
}

// Normalize turns a categorical series into shares whose percents sum to 100
// up to rounding. Raw values are kept as generated.
func Normalize(series models.Series) []models.Share {
	total := series.Total()
	out := make([]models.Share, 0, len(series.Samples))
	for _, smp := range series.Samples {
		out = append(out, models.Share{
			Name:    smp.Label,
			Value:   smp.Value(),
			Percent: round2(safeDiv(smp.Value(), total) * 100),
		})
	}
	return out
}

func (s *Service) Dashboard(ctx context.Context) (models.Dashboard, error) {
	week := models.Preset(models.TokenWeek)
	month := models.Preset(models.TokenMonth)
	today := models.Day(s.clock.Now())
	// presets end yesterday; the day-level cards need today itself
	recentDays := models.CustomDates(today.AddDate(0, 0, -2), today)

	var bookings, prevBookings, recent, occupancy, status models.Series
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bookings, err = s.p.Series(gctx, models.KindBookings, month)
		return err
	})
	g.Go(func() (err error) {
		prevBookings, err = s.p.Series(gctx, models.KindBookings, month.Previous(s.clock.Now()))
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.p.Series(gctx, models.KindBookings, recentDays)
		return err
	})
	g.Go(func() (err error) {
		occupancy, err = s.p.Series(gctx, models.KindOccupancy, week)
		return err
	})
	g.Go(func() (err error) {
		status, err = s.p.Series(gctx, models.KindRoomStatus, week)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}

	// check-ins salen de hoy, check-outs de las llegadas de ayer
	checkins, prevDay, twoBack := fromEnd(recent, 0), fromEnd(recent, 1), fromEnd(recent, 2)
	out := models.Dashboard{
		Stats: []models.KPI{
			{Label: "Total Bookings", Value: bookings.Total(), Change: pctChange(bookings.Total(), prevBookings.Total())},
			{Label: "Today's Check-ins", Value: math.Floor(checkins * checkinRatio), Change: pctChange(checkins, prevDay)},
			{Label: "Today's Check-outs", Value: math.Floor(prevDay * checkoutRatio), Change: pctChange(prevDay, twoBack)},
		},
		TotalRooms: int(status.Total()),
		RoomStatus: Normalize(status),
	}
	out.Occupancy = fromEnd(occupancy, 0)
	return out, nil
}

// Summary computes the report cards for sel, each compared with the window of
// equal length right before it.
func (s *Service) Summary(ctx context.Context, sel models.RangeSelector) (models.Summary, error) {
	cur, err := s.totals(ctx, sel)
	if err != nil {
		return models.Summary{}, err
	}
	prev, err := s.totals(ctx, sel.Previous(s.clock.Now()))
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summary{
		Range:         sel,
		TotalRevenue:  kpi("Total Revenue", cur.revenue, prev.revenue),
		AvgOccupancy:  kpi("Avg. Occupancy Rate", cur.occupancy, prev.occupancy),
		ADR:           kpi("ADR", cur.adr(), prev.adr()),
		TotalBookings: kpi("Total Bookings", cur.bookings, prev.bookings),
	}, nil
}

// Report assembles everything the reports screen shows for sel.
func (s *Service) Report(ctx context.Context, sel models.RangeSelector) (models.Report, error) {
	var r models.Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.Summary, err = s.Summary(gctx, sel)
		return err
	})
	g.Go(func() (err error) {
		r.Bookings, err = s.p.Series(gctx, models.KindBookings, sel)
		return err
	})
	g.Go(func() (err error) {
		r.Revenue, err = s.p.Series(gctx, models.KindRevenue, sel)
		return err
	})
	g.Go(func() (err error) {
		r.Occupancy, err = s.p.Series(gctx, models.KindOccupancy, sel)
		return err
	})
	g.Go(func() (err error) {
		r.RoomTypes, err = s.p.Series(gctx, models.KindRoomTypes, sel)
		return err
	})
	g.Go(func() (err error) {
		r.Channels, err = s.Channels(gctx, sel)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

func (s *Service) Rooms() []models.Room { return generator.Rooms() }

type totals struct {
	bookings  float64
	revenue   float64
	occupancy float64
}

func (t totals) adr() float64 { return round2(safeDiv(t.revenue, t.bookings)) }

func (s *Service) totals(ctx context.Context, sel models.RangeSelector) (totals, error) {
	var t totals
	for _, kind := range []models.Kind{models.KindBookings, models.KindRevenue, models.KindOccupancy} {
		series, err := s.p.Series(ctx, kind, sel)
		if err != nil {
			return totals{}, err
		}
		switch kind {
		case models.KindBookings:
			t.bookings = series.Total()
		case models.KindRevenue:
			t.revenue = series.Total()
		case models.KindOccupancy:
			t.occupancy = round2(safeDiv(series.Total(), float64(series.Len())))
		}
	}
	return t, nil
}

func kpi(label string, cur, prev float64) models.KPI {
	return models.KPI{Label: label, Value: cur, Change: pctChange(cur, prev)}
}

func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return round2((cur - prev) / prev * 100)
}

// fromEnd returns the primary value k samples before the last one.
func fromEnd(s models.Series, k int) float64 {
	i := s.Len() - 1 - k
	if i < 0 {
		return 0
	}
	return s.Samples[i].Value()
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
