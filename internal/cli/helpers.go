package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/AngelCh415/hotel-analytics/internal/config"
	"github.com/AngelCh415/hotel-analytics/internal/generator"
	"github.com/AngelCh415/hotel-analytics/internal/models"
	"github.com/AngelCh415/hotel-analytics/internal/reports"
)

type env struct {
	cfg     config.Config
	log     *slog.Logger
	reports *reports.Service
}

// newEnv loads the config and builds the services a command needs. A
// non-zero --seed overrides the configured generator seed.
func newEnv(g *GlobalFlags) (*env, error) {
	path := ""
	if g != nil {
		path = g.Config
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if g != nil && g.Seed != 0 {
		cfg.Generator.Seed = g.Seed
	}

	clock := clockwork.NewRealClock()
	opts := []generator.Option{generator.WithClock(clock), generator.WithLatency(cfg.Generator.Latency)}
	if cfg.Generator.Seed != 0 {
		opts = append(opts, generator.WithSeed(cfg.Generator.Seed))
	}
	return &env{
		cfg:     cfg,
		log:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		reports: reports.NewService(generator.NewSynthetic(opts...), clock),
	}, nil
}

func (r RangeFlags) values() url.Values {
	v := url.Values{}
	if r.Range != "" {
		v.Set("range", r.Range)
	}
	if r.Start != "" {
		v.Set("start", r.Start)
	}
	if r.End != "" {
		v.Set("end", r.End)
	}
	return v
}

func (r RangeFlags) selector() (models.RangeSelector, error) {
	return reports.SelectorFrom(r.values())
}

func wantJSON(g *GlobalFlags) bool { return g != nil && g.JSON }

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
