package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/hotel-analytics/internal/config"
	"github.com/AngelCh415/hotel-analytics/internal/export"
	"github.com/AngelCh415/hotel-analytics/internal/generator"
	"github.com/AngelCh415/hotel-analytics/internal/httpx"
	"github.com/AngelCh415/hotel-analytics/internal/refresh"
	"github.com/AngelCh415/hotel-analytics/internal/reports"
	"github.com/AngelCh415/hotel-analytics/internal/store"
	"github.com/AngelCh415/hotel-analytics/internal/telemetry"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load configuration", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With(slog.String("env", cfg.Environment))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server terminated with error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	clock := clockwork.NewRealClock()
	tm := telemetry.New()

	opts := []generator.Option{generator.WithClock(clock), generator.WithLatency(cfg.Generator.Latency)}
	if cfg.Generator.Seed != 0 {
		opts = append(opts, generator.WithSeed(cfg.Generator.Seed))
	}
	provider := telemetry.Instrument(generator.NewSynthetic(opts...), tm)

	board := store.NewBoard(provider, cfg.AllowedCharts()...)
	board.OnSuperseded(func(chart string) { tm.Superseded.WithLabelValues(chart).Inc() })

	rSvc := reports.NewService(provider, clock)
	exp, err := export.NewExporter(export.NewHTTPClient(cfg.HTTPTimeout), rSvc, logger, cfg.Export)
	if err != nil {
		return err
	}
	exp.OnResult = func(outcome string) { tm.Exports.WithLabelValues(outcome).Inc() }

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	live, err := refresh.New(board, logger, clock)
	if err != nil {
		return err
	}
	live.OnRun = func(string, error) { tm.Refreshes.Inc() }
	if cfg.Refresh.Interval > 0 {
		for _, chart := range cfg.Refresh.Charts {
			if _, err := live.Track(ctx, chart, cfg.Refresh.Interval); err != nil {
				return fmt.Errorf("tracking %q: %w", chart, err)
			}
		}
		live.Start()
	}
	defer live.Stop()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpx.NewRouter(httpx.Deps{
			Log:      logger,
			Reports:  rSvc,
			Board:    board,
			Exporter: exp,
			Metrics:  tm,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return live.Stop()
	})
	return g.Wait()
}
