// Package routes wires the dashboard HTTP API: indicator summaries, raw
// series, downloads, and cache invalidation.
package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/econlab/indicadores/bcch"
	"github.com/econlab/indicadores/cache"
	"github.com/econlab/indicadores/export"
	"github.com/econlab/indicadores/indicator"
	"github.com/econlab/indicadores/internal/config"
)

// defaultDisplayMonths is the range served when the caller gives none; the
// dashboard charts open on the last month of data.
const defaultDisplayMonths = 1

const dateLayout = "2006-01-02"

type Server struct {
	Router  *chi.Mux
	Repo    *indicator.Repository
	Store   cache.Store
	Catalog []config.Indicator
	Log     zerolog.Logger

	now func() time.Time
}

type ServerOptions struct {
	Repo    *indicator.Repository
	Store   cache.Store
	Catalog []config.Indicator
	Log     zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	s := &Server{
		Router:  r,
		Repo:    opts.Repo,
		Store:   opts.Store,
		Catalog: opts.Catalog,
		Log:     opts.Log,
		now:     time.Now,
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/indicators", s.handleIndicators)
		r.Get("/indicators/{seriesID}", s.handleSeries)
		r.Get("/download", s.handleDownload)
		r.Post("/cache/refresh", s.handleCacheRefresh)
	})

	return s
}

// indicatorSummary is one dashboard card: catalog metadata plus the latest
// value and its headline change. Cards fail independently so one broken
// series does not blank the whole dashboard.
type indicatorSummary struct {
	config.Indicator
	Latest        *indicator.Observation `json:"latest,omitempty"`
	PercentChange *float64               `json:"percentChange,omitempty"`
	Error         string                 `json:"error,omitempty"`
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	// A year plus slack so a year lookback still finds a neighbor.
	first := now.AddDate(-1, 0, -7).Format(dateLayout)
	last := now.Format(dateLayout)

	summaries := make([]indicatorSummary, 0, len(s.Catalog))
	for _, ind := range s.Catalog {
		summary := indicatorSummary{Indicator: ind}

		series, err := s.Repo.GetSeries(r.Context(), ind.SeriesID, first, last)
		if err == nil {
			var m indicator.DerivedMetric
			if m, err = indicator.LatestAndChange(series, ind.LookbackSpec()); err == nil {
				summary.Latest = &m.Latest
				summary.PercentChange = &m.PercentChange
			}
		}
		if err != nil {
			s.Log.Warn().Str("series", ind.SeriesID).Err(err).Msg("indicator summary unavailable")
			summary.Error = userMessage(err)
		}
		summaries = append(summaries, summary)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"indicators": summaries})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	now := s.now()

	first := r.URL.Query().Get("firstdate")
	last := r.URL.Query().Get("lastdate")
	if first == "" {
		first = now.AddDate(0, -defaultDisplayMonths, 0).Format(dateLayout)
	}
	if last == "" {
		last = now.Format(dateLayout)
	}
	for _, d := range []string{first, last} {
		if _, err := time.Parse(dateLayout, d); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", d))
			return
		}
	}

	series, err := s.Repo.GetSeries(r.Context(), seriesID, first, last)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	if r.URL.Query().Get("order") == "desc" {
		series = series.Descending()
	} else {
		series = series.Ascending()
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"seriesId":     seriesID,
		"firstDate":    first,
		"lastDate":     last,
		"observations": series,
	})
}

// handleDownload serves the CSV/XLSX export. The exported window is always
// the last five years, regardless of what the UI currently displays.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	seriesID := r.URL.Query().Get("seriesId")
	if seriesID == "" {
		s.writeError(w, http.StatusBadRequest, "seriesId parameter is required")
		return
	}
	description := r.URL.Query().Get("description")
	if description == "" {
		description = "indicador"
	}
	format := export.ParseFormat(r.URL.Query().Get("format"))

	now := s.now()
	first, last := export.Range(now)

	series, err := s.Repo.GetSeries(r.Context(), seriesID, first, last)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	payload, err := export.Encode(series.Ascending(), description, format)
	if err != nil {
		s.Log.Error().Str("series", seriesID).Err(err).Msg("export encoding failed")
		s.writeError(w, http.StatusInternalServerError, "could not encode download")
		return
	}

	filename := export.Filename(description, payload.Extension, now)
	w.Header().Set("Content-Type", payload.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(payload.Bytes)
}

func (s *Server) handleCacheRefresh(w http.ResponseWriter, r *http.Request) {
	s.Store.ClearByPrefix(cache.IndicatorPrefix)
	s.Log.Info().Msg("indicator cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

// writeFailure maps domain errors onto HTTP statuses: no data is a 404
// "empty state", upstream or credential trouble is a 502, anything else is
// a 500.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var upstream *bcch.UpstreamError
	switch {
	case errors.Is(err, indicator.ErrNoData):
		s.writeError(w, http.StatusNotFound, userMessage(err))
	case errors.Is(err, bcch.ErrMissingCredentials), errors.As(err, &upstream):
		s.writeError(w, http.StatusBadGateway, userMessage(err))
	default:
		s.writeError(w, http.StatusInternalServerError, userMessage(err))
	}
}

func userMessage(err error) string {
	var upstream *bcch.UpstreamError
	switch {
	case errors.Is(err, indicator.ErrNoData), errors.Is(err, indicator.ErrEmptySeries):
		return "no data available for the requested range"
	case errors.Is(err, bcch.ErrMissingCredentials):
		return "BCCh credentials are not configured"
	case errors.As(err, &upstream):
		return upstream.Error()
	default:
		return "internal error"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
