package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/hotel-analytics/internal/generator"
	"github.com/AngelCh415/hotel-analytics/internal/models"
)

type Metrics struct {
	reg *prometheus.Registry

	Generated   *prometheus.CounterVec
	GenLatency  *prometheus.HistogramVec
	EmptySeries *prometheus.CounterVec
	Superseded  *prometheus.CounterVec
	Exports     *prometheus.CounterVec
	Refreshes   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Generated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "series_generated_total",
			Help:      "Series generated, by kind and range token.",
		}, []string{"kind", "range"}),
		GenLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hotel",
			Name:      "series_generation_seconds",
			Help:      "Time spent generating a series.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		EmptySeries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "series_empty_total",
			Help:      "Series returned empty because of an invalid range.",
		}, []string{"kind"}),
		Superseded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "chart_selections_superseded_total",
			Help:      "Chart generations discarded because a newer selection arrived.",
		}, []string{"chart"}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "report_exports_total",
			Help:      "Report exports by outcome.",
		}, []string{"outcome"}),
		Refreshes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "live_refreshes_total",
			Help:      "Live dashboard refresh runs.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Instrument wraps p so every generation is counted and timed.
func Instrument(p generator.Provider, m *Metrics) generator.Provider {
	return &instrumented{p: p, m: m}
}

type instrumented struct {
	p generator.Provider
	m *Metrics
}

func (i *instrumented) Series(ctx context.Context, kind models.Kind, sel models.RangeSelector) (models.Series, error) {
	start := time.Now()
	s, err := i.p.Series(ctx, kind, sel)
	if err != nil {
		return s, err
	}
	i.m.GenLatency.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	i.m.Generated.WithLabelValues(string(kind), string(sel.Token)).Inc()
	if s.Empty() {
		i.m.EmptySeries.WithLabelValues(string(kind)).Inc()
	}
	return s, nil
}
