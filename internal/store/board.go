package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/AngelCh415/hotel-analytics/internal/generator"
	"github.com/AngelCh415/hotel-analytics/internal/models"
)

var ErrUnknownChart = errors.New("unknown chart")

// Board holds the current series of every chart. Each chart owns its slot; a
// new selection replaces the series wholesale and the latest selection wins
// even if an older one finishes generating later.
type Board struct {
	mu      sync.RWMutex
	p       generator.Provider
	slots   map[string]*slot
	allowed map[string]bool // nil accepts any chart

	superseded func(chart string)
}

type slot struct {
	seq     uint64 // bumped on every selection
	settled uint64 // seq of the last selection that committed or failed
	kind    models.Kind
	sel     models.RangeSelector
	series  models.Series
	ready   bool
}

// NewBoard returns a board for the given charts; with none listed every chart
// name is accepted.
func NewBoard(p generator.Provider, charts ...string) *Board {
	b := &Board{p: p, slots: make(map[string]*slot)}
	if len(charts) > 0 {
		b.allowed = make(map[string]bool, len(charts))
		for _, c := range charts {
			b.allowed[c] = true
		}
	}
	return b
}

// OnSuperseded registers a hook called when a finished generation is dropped
// because a newer selection arrived.
func (b *Board) OnSuperseded(fn func(chart string)) { b.superseded = fn }

// Select regenerates chart for the given kind and range. committed is false
// when a later selection superseded this one; the returned series is then
// the discarded result.
func (b *Board) Select(ctx context.Context, chart string, kind models.Kind, sel models.RangeSelector) (models.Series, bool, error) {
	b.mu.Lock()
	sl, ok := b.slots[chart]
	if !ok {
		if b.allowed != nil && !b.allowed[chart] {
			b.mu.Unlock()
			return models.Series{}, false, fmt.Errorf("%w: %q", ErrUnknownChart, chart)
		}
		sl = &slot{}
		b.slots[chart] = sl
	}
	sl.seq++
	seq := sl.seq
	b.mu.Unlock()
	return b.generate(ctx, chart, sl, seq, kind, sel)
}

// Refresh regenerates chart with its current kind and range. It is not a new
// selection: while one is still generating the refresh is skipped and returns
// the current series with committed false.
func (b *Board) Refresh(ctx context.Context, chart string) (models.Series, bool, error) {
	b.mu.Lock()
	sl, ok := b.slots[chart]
	if !ok || !sl.ready {
		b.mu.Unlock()
		return models.Series{}, false, ErrUnknownChart
	}
	if sl.seq != sl.settled {
		cur := sl.series
		b.mu.Unlock()
		return cur, false, nil
	}
	sl.seq++
	seq, kind, sel := sl.seq, sl.kind, sl.sel
	b.mu.Unlock()
	return b.generate(ctx, chart, sl, seq, kind, sel)
}

// generate runs the provider and commits the result if seq is still the
// slot's latest.
func (b *Board) generate(ctx context.Context, chart string, sl *slot, seq uint64, kind models.Kind, sel models.RangeSelector) (models.Series, bool, error) {
	s, err := b.p.Series(ctx, kind, sel)
	if err != nil {
		b.mu.Lock()
		if sl.seq == seq {
			sl.settled = seq
		}
		b.mu.Unlock()
		return models.Series{}, false, err
	}

	b.mu.Lock()
	if sl.seq != seq {
		b.mu.Unlock()
		if b.superseded != nil {
			b.superseded(chart)
		}
		return s, false, nil
	}
	sl.kind, sl.sel, sl.series, sl.ready = kind, sel, s, true
	sl.settled = seq
	b.mu.Unlock()
	return s, true, nil
}

func (b *Board) Get(chart string) (models.Series, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	sl, ok := b.slots[chart]
	if !ok || !sl.ready {
		return models.Series{}, false
	}
	return sl.series, true
}

// Charts lists charts that hold a series, sorted.
func (b *Board) Charts() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.slots))
	for k, sl := range b.slots {
		if sl.ready {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
