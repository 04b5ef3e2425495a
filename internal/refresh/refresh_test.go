package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/hotel-analytics/internal/generator"
	"github.com/AngelCh415/hotel-analytics/internal/models"
	"github.com/AngelCh415/hotel-analytics/internal/store"
)

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestKindOf(t *testing.T) {
	k, err := KindOf("dashboard.occupancy")
	require.NoError(t, err)
	assert.Equal(t, models.KindOccupancy, k)

	k, err = KindOf("revenue")
	require.NoError(t, err)
	assert.Equal(t, models.KindRevenue, k)

	_, err = KindOf("dashboard.weather")
	assert.Error(t, err)
	_, err = KindOf("  ")
	assert.True(t, errors.Is(err, ErrEmptyChart))
}

func TestTrackSeedsAndRefreshes(t *testing.T) {
	board := store.NewBoard(generator.NewSynthetic(generator.WithSeed(5)))
	svc, err := New(board, quietLog(), nil)
	require.NoError(t, err)
	defer svc.Stop()

	var mu sync.Mutex
	runs := map[string]int{}
	svc.OnRun = func(chart string, err error) {
		assert.NoError(t, err)
		mu.Lock()
		runs[chart]++
		mu.Unlock()
	}

	_, err = svc.Track(context.Background(), "dashboard.bookings", 20*time.Millisecond)
	require.NoError(t, err)
	s, ok := board.Get("dashboard.bookings")
	require.True(t, ok, "chart is seeded before the first tick")
	assert.Equal(t, 7, s.Len())

	svc.Start()
	svc.Start()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs["dashboard.bookings"] >= 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop(), "stop is idempotent")
}

func TestTrackKeepsSelectedRange(t *testing.T) {
	board := store.NewBoard(generator.NewSynthetic(generator.WithSeed(6)))
	_, _, err := board.Select(context.Background(), "dashboard.revenue", models.KindRevenue, models.Preset(models.TokenQuarter))
	require.NoError(t, err)

	svc, err := New(board, quietLog(), nil)
	require.NoError(t, err)
	defer svc.Stop()

	done := make(chan struct{}, 1)
	svc.OnRun = func(string, error) {
		select {
		case done <- struct{}{}:
		default:
		}
	}
	_, err = svc.Track(context.Background(), "dashboard.revenue", 10*time.Millisecond)
	require.NoError(t, err)
	svc.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never ran")
	}
	s, ok := board.Get("dashboard.revenue")
	require.True(t, ok)
	assert.Equal(t, 90, s.Len())
}

func TestTrackRejectsBadInput(t *testing.T) {
	svc, err := New(store.NewBoard(generator.NewSynthetic()), quietLog(), nil)
	require.NoError(t, err)
	defer svc.Stop()

	_, err = svc.Track(context.Background(), "dashboard.bookings", 0)
	assert.True(t, errors.Is(err, ErrInvalidInterval))
	_, err = svc.Track(context.Background(), "dashboard.nothing", time.Second)
	assert.Error(t, err)
}
