package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/hotel-analytics/internal/export"
	"github.com/AngelCh415/hotel-analytics/internal/models"
	"github.com/AngelCh415/hotel-analytics/internal/refresh"
	"github.com/AngelCh415/hotel-analytics/internal/reports"
	"github.com/AngelCh415/hotel-analytics/internal/store"
	"github.com/AngelCh415/hotel-analytics/internal/telemetry"
	"github.com/AngelCh415/hotel-analytics/internal/utils"
)

type Deps struct {
	Log      *slog.Logger
	Reports  *reports.Service
	Board    *store.Board
	Exporter *export.Exporter
	Metrics  *telemetry.Metrics
}

func NewRouter(d Deps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(utils.Recover(d.Log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	mux.Route("/api/v1", func(api chi.Router) {
		api.Get("/series/{kind}", func(w http.ResponseWriter, r *http.Request) {
			kind := models.Kind(chi.URLParam(r, "kind"))
			if !kind.Valid() {
				http.Error(w, "unknown series kind", http.StatusBadRequest)
				return
			}
			s, err := d.Reports.QuerySeries(r.Context(), kind, r.URL.Query())
			if err != nil {
				writeErr(w, d.Log, r, err)
				return
			}
			writeJSON(w, s)
		})

		api.Get("/channels", func(w http.ResponseWriter, r *http.Request) {
			sel, ok := selector(w, r)
			if !ok {
				return
			}
			shares, err := d.Reports.Channels(r.Context(), sel)
			if err != nil {
				writeErr(w, d.Log, r, err)
				return
			}
			writeJSON(w, map[string]any{"range": sel, "channels": shares})
		})

		api.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			db, err := d.Reports.Dashboard(r.Context())
			if err != nil {
				writeErr(w, d.Log, r, err)
				return
			}
			writeJSON(w, db)
		})

		api.Get("/rooms", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, d.Reports.Rooms())
		})

		api.Get("/reports", func(w http.ResponseWriter, r *http.Request) {
			sel, ok := selector(w, r)
			if !ok {
				return
			}
			rep, err := d.Reports.Report(r.Context(), sel)
			if err != nil {
				writeErr(w, d.Log, r, err)
				return
			}
			writeJSON(w, rep)
		})

		api.Get("/reports/summary", func(w http.ResponseWriter, r *http.Request) {
			sel, ok := selector(w, r)
			if !ok {
				return
			}
			sum, err := d.Reports.Summary(r.Context(), sel)
			if err != nil {
				writeErr(w, d.Log, r, err)
				return
			}
			writeJSON(w, sum)
		})

		api.Get("/charts", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"charts": d.Board.Charts()})
		})

		api.Get("/charts/{chart}", func(w http.ResponseWriter, r *http.Request) {
			s, ok := d.Board.Get(chi.URLParam(r, "chart"))
			if !ok {
				http.Error(w, "chart has no series", http.StatusNotFound)
				return
			}
			writeJSON(w, s)
		})

		api.Put("/charts/{chart}", func(w http.ResponseWriter, r *http.Request) {
			chart := chi.URLParam(r, "chart")
			kind := models.Kind(r.URL.Query().Get("kind"))
			if kind == "" {
				k, err := refresh.KindOf(chart)
				if err != nil {
					http.Error(w, "kind required", http.StatusBadRequest)
					return
				}
				kind = k
			}
			if !kind.Valid() {
				http.Error(w, "unknown series kind", http.StatusBadRequest)
				return
			}
			sel, ok := selector(w, r)
			if !ok {
				return
			}
			s, committed, err := d.Board.Select(r.Context(), chart, kind, sel)
			if err != nil {
				writeErr(w, d.Log, r, err)
				return
			}
			writeJSON(w, map[string]any{"chart": chart, "committed": committed, "series": s})
		})

		api.Post("/export", func(w http.ResponseWriter, r *http.Request) {
			sel, ok := selector(w, r)
			if !ok {
				return
			}
			res, err := d.Exporter.Export(r.Context(), sel)
			if err != nil {
				if errors.Is(err, export.ErrSinkNotConfigured) {
					http.Error(w, err.Error(), http.StatusServiceUnavailable)
					return
				}
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			writeJSON(w, res)
		})
	})

	return mux
}

func selector(w http.ResponseWriter, r *http.Request) (models.RangeSelector, bool) {
	sel, err := reports.SelectorFrom(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return models.RangeSelector{}, false
	}
	return sel, true
}

func writeErr(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, reports.ErrBadQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrUnknownChart):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		log.Error("request failed", slog.String("path", r.URL.Path), slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
