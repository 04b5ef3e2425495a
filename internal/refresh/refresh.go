// Package refresh keeps the dashboard's live charts moving by regenerating
// them on a fixed interval.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/AngelCh415/hotel-analytics/internal/models"
	"github.com/AngelCh415/hotel-analytics/internal/store"
)

var (
	ErrEmptyChart      = errors.New("chart name is required")
	ErrInvalidInterval = errors.New("refresh interval must be positive")
)

const runTimeout = 10 * time.Second

type Service struct {
	scheduler gocron.Scheduler
	board     *store.Board
	log       *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopErr   error

	// OnRun, if set, is called after every refresh attempt.
	OnRun func(chart string, err error)
}

func New(board *store.Board, log *slog.Logger, clock clockwork.Clock) (*Service, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	sched, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error("refresh job panicked",
						slog.String("job_id", jobID.String()),
						slog.String("job_name", jobName),
						slog.Any("panic", recoverData))
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return &Service{scheduler: sched, board: board, log: log}, nil
}

// KindOf derives the series kind from a chart name of the form
// "<page>.<kind>", e.g. "dashboard.occupancy".
func KindOf(chart string) (models.Kind, error) {
	name := strings.TrimSpace(chart)
	if name == "" {
		return "", ErrEmptyChart
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	k := models.Kind(name)
	if !k.Valid() {
		return "", fmt.Errorf("chart %q: unknown series kind %q", chart, name)
	}
	return k, nil
}

// Track seeds chart with a 7-day series and registers a job that regenerates
// it every interval, keeping whatever range was selected last.
func (s *Service) Track(ctx context.Context, chart string, interval time.Duration) (gocron.Job, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	kind, err := KindOf(chart)
	if err != nil {
		return nil, err
	}
	if _, ok := s.board.Get(chart); !ok {
		if _, _, err := s.board.Select(ctx, chart, kind, models.Preset(models.TokenWeek)); err != nil {
			return nil, fmt.Errorf("seeding chart %q: %w", chart, err)
		}
	}

	jobLog := s.log.With(slog.String("chart", chart), slog.Duration("interval", interval))
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.run(chart, jobLog) }),
		gocron.WithName("refresh:"+chart),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		jobLog.Error("failed to register refresh job", slog.String("err", err.Error()))
		return nil, err
	}
	jobLog.Info("refresh job registered", slog.String("job_id", job.ID().String()))
	return job, nil
}

func (s *Service) run(chart string, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	_, committed, err := s.board.Refresh(ctx, chart)
	if err != nil {
		log.Error("refresh failed", slog.String("err", err.Error()))
	} else if !committed {
		log.Debug("refresh skipped, a newer selection owns the chart")
	}
	if s.OnRun != nil {
		s.OnRun(chart, err)
	}
}

func (s *Service) Start() {
	s.startOnce.Do(func() {
		s.log.Info("refresh scheduler starting")
		s.scheduler.Start()
	})
}

func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.log.Info("refresh scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}
