// Package generator produces the chart series shown on the hotel dashboard.
//
// Provider is the seam between chart consumers and the data source. Synthetic
// fabricates plausible numbers (a smooth periodic trend plus bounded jitter)
// so the dashboard can run without an analytics backend; a real source only
// has to implement Provider.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AngelCh415/hotel-analytics/internal/models"
)

var ErrUnknownKind = errors.New("unknown series kind")

type Provider interface {
	Series(ctx context.Context, kind models.Kind, sel models.RangeSelector) (models.Series, error)
}

type Option func(*Synthetic)

// WithSeed makes the jitter reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Synthetic) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithClock(c clockwork.Clock) Option {
	return func(s *Synthetic) { s.clock = c }
}

// WithLatency delays every generation to mimic a remote call.
func WithLatency(d time.Duration) Option {
	return func(s *Synthetic) { s.latency = d }
}

type Synthetic struct {
	clock   clockwork.Clock
	latency time.Duration

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewSynthetic(opts ...Option) *Synthetic {
	s := &Synthetic{clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

func (s *Synthetic) Now() time.Time { return s.clock.Now() }

// Series never fails on a bad range: an invalid custom selector yields an
// empty series. The only errors are an unknown kind and context cancellation.
func (s *Synthetic) Series(ctx context.Context, kind models.Kind, sel models.RangeSelector) (models.Series, error) {
	if !kind.Valid() {
		return models.Series{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := s.wait(ctx); err != nil {
		return models.Series{}, err
	}

	now := s.clock.Now()
	out := models.Series{
		Kind:        kind,
		Range:       sel,
		Samples:     []models.Sample{},
		GeneratedAt: now,
	}
	if kind.Categorical() {
		out.Fields = []string{"value"}
		out.Samples = categories(kind, sel)
		return out, nil
	}

	out.Fields = []string{string(kind)}
	from, _, ok := sel.Window(now)
	if !ok {
		return out, nil
	}
	n := sel.Days()
	jitter := s.uniform(n)
	trend := trends[kind]
	out.Samples = make([]models.Sample, 0, n)
	for i := 0; i < n; i++ {
		d := from.AddDate(0, 0, i)
		out.Samples = append(out.Samples, models.Sample{
			Label:  d.Format(LabelLayout),
			Date:   &d,
			Values: []float64{trend.At(i, jitter[i])},
		})
	}
	return out, nil
}

// LabelLayout renders sample dates the way chart axes show them.
const LabelLayout = "Jan 2"

func (s *Synthetic) uniform(n int) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.Float64()
	}
	return out
}

func (s *Synthetic) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil || s.latency <= 0 {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(s.latency):
		return nil
	}
}
