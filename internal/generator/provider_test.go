package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/hotel-analytics/internal/models"
)

var fixedNow = time.Date(2025, time.August, 20, 9, 30, 0, 0, time.UTC)

func newTestProvider(seed uint64) *Synthetic {
	return NewSynthetic(WithSeed(seed), WithClock(clockwork.NewFakeClockAt(fixedNow)))
}

func TestFixedTokenLengths(t *testing.T) {
	p := newTestProvider(1)
	want := map[models.Token]int{
		models.TokenWeek:     7,
		models.TokenMonth:    30,
		models.TokenQuarter:  90,
		models.TokenHalfYear: 180,
		models.TokenYear:     365,
		models.TokenAll:      730,
	}
	for tok, n := range want {
		for _, kind := range []models.Kind{models.KindBookings, models.KindRevenue, models.KindOccupancy} {
			s, err := p.Series(context.Background(), kind, models.Preset(tok))
			require.NoError(t, err)
			assert.Equal(t, n, s.Len(), "%s/%s", kind, tok)
		}
	}
}

func TestTimeSeriesLabelsCountBackwardFromNow(t *testing.T) {
	p := newTestProvider(2)
	s, err := p.Series(context.Background(), models.KindBookings, models.Preset(models.TokenWeek))
	require.NoError(t, err)
	require.Equal(t, 7, s.Len())

	assert.Equal(t, "Aug 13", s.Samples[0].Label)
	assert.Equal(t, "Aug 19", s.Samples[6].Label)
	for i := 1; i < s.Len(); i++ {
		assert.True(t, s.Samples[i].Date.After(*s.Samples[i-1].Date), "chronological at %d", i)
	}
	assert.Equal(t, []string{"bookings"}, s.Fields)
	assert.Equal(t, fixedNow, s.GeneratedAt)
}

func TestValuesStayWithinTrendBounds(t *testing.T) {
	p := newTestProvider(3)
	for _, kind := range []models.Kind{models.KindBookings, models.KindRevenue, models.KindOccupancy} {
		tr, ok := TrendFor(kind)
		require.True(t, ok)
		lo, hi := tr.Bounds()
		s, err := p.Series(context.Background(), kind, models.Preset(models.TokenAll))
		require.NoError(t, err)
		for _, smp := range s.Samples {
			v := smp.Value()
			assert.GreaterOrEqual(t, v, lo, kind)
			assert.LessOrEqual(t, v, hi, kind)
			assert.GreaterOrEqual(t, v, 0.0, kind)
		}
	}
	lo, hi := trends[models.KindBookings].Bounds()
	assert.Equal(t, 150.0, lo)
	assert.Equal(t, 270.0, hi)
}

func TestOccupancyNeverExceedsHundred(t *testing.T) {
	tr := Trend{Base: 95, Amplitude: 10, Period: 3, Jitter: 10, Max: 100}
	for i := 0; i < 50; i++ {
		assert.LessOrEqual(t, tr.At(i, 0.99), 100.0)
	}
}

func TestCustomRange(t *testing.T) {
	p := newTestProvider(4)
	ctx := context.Background()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	s, err := p.Series(ctx, models.KindRevenue, models.CustomDates(start, start))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len(), "start == end is a single day")
	assert.Equal(t, "Jul 1", s.Samples[0].Label)

	s, err = p.Series(ctx, models.KindRevenue, models.CustomDates(start, start.AddDate(0, 0, 13)))
	require.NoError(t, err)
	assert.Equal(t, 14, s.Len())
	assert.Equal(t, "Jul 14", s.Samples[13].Label)

	s, err = p.Series(ctx, models.KindRevenue, models.CustomDates(start, start.AddDate(0, 0, -1)))
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.NotNil(t, s.Samples, "empty series encode as []")

	s, err = p.Series(ctx, models.KindBookings, models.Custom(&start, nil))
	require.NoError(t, err)
	assert.True(t, s.Empty())

	s, err = p.Series(ctx, models.KindChannels, models.Custom(nil, nil))
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestSameSelectorSameLength(t *testing.T) {
	p := NewSynthetic()
	sel := models.Preset(models.TokenQuarter)
	a, err := p.Series(context.Background(), models.KindBookings, sel)
	require.NoError(t, err)
	b, err := p.Series(context.Background(), models.KindBookings, sel)
	require.NoError(t, err)
	assert.Equal(t, a.Len(), b.Len())
}

func TestSeedMakesOutputReproducible(t *testing.T) {
	sel := models.Preset(models.TokenMonth)
	a, err := newTestProvider(42).Series(context.Background(), models.KindOccupancy, sel)
	require.NoError(t, err)
	b, err := newTestProvider(42).Series(context.Background(), models.KindOccupancy, sel)
	require.NoError(t, err)
	assert.Equal(t, a.Samples, b.Samples)
}

func TestUnknownKind(t *testing.T) {
	_, err := newTestProvider(1).Series(context.Background(), models.Kind("adr"), models.Preset(models.TokenWeek))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestLatencyHonoursContext(t *testing.T) {
	clk := clockwork.NewFakeClockAt(fixedNow)
	p := NewSynthetic(WithClock(clk), WithLatency(400*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Series(ctx, models.KindBookings, models.Preset(models.TokenWeek))
	assert.ErrorIs(t, err, context.Canceled)

	done := make(chan models.Series, 1)
	go func() {
		s, _ := p.Series(context.Background(), models.KindBookings, models.Preset(models.TokenWeek))
		done <- s
	}()
	clk.BlockUntil(1)
	clk.Advance(400 * time.Millisecond)
	select {
	case s := <-done:
		assert.Equal(t, 7, s.Len())
	case <-time.After(2 * time.Second):
		t.Fatal("generation did not complete after latency elapsed")
	}
}
