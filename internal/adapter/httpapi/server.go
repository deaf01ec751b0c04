// Package httpapi exposes the map state over HTTP: read endpoints for
// the current snapshot and its pieces, and selection endpoints that
// advance it.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odorlab/odormap/internal/domain"
	"github.com/odorlab/odormap/internal/loader"
	"github.com/odorlab/odormap/internal/view"
)

// Server exposes the map API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	coord      *view.Coordinator
	bundle     *loader.Bundle
	logger     *slog.Logger
}

// NewServer wires all routes onto a fresh router.
func NewServer(addr string, coord *view.Coordinator, bundle *loader.Bundle, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		coord:  coord,
		bundle: bundle,
		logger: logger,
	}

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	api.HandleFunc("/wind", s.handleWind).Methods(http.MethodGet)
	api.HandleFunc("/levels", s.handleLevels).Methods(http.MethodGet)
	api.HandleFunc("/calendar", s.handleCalendar).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/regions", s.handleRegions).Methods(http.MethodGet)
	api.HandleFunc("/barns", s.handleBarns).Methods(http.MethodGet)

	api.HandleFunc("/select/day/{date}", s.handleSelectDay).Methods(http.MethodPost)
	api.HandleFunc("/select/week/{index:[0-9]+}", s.handleSelectWeek).Methods(http.MethodPost)
	api.HandleFunc("/select/all", s.handleSelectAll).Methods(http.MethodPost)
	api.HandleFunc("/map-view/{view}", s.handleSetMapView).Methods(http.MethodPost)
	api.HandleFunc("/hour/release", s.handleReleaseHour).Methods(http.MethodPost)
	api.HandleFunc("/hour/{hour:-?[0-9]+}", s.handleSetHour).Methods(http.MethodPost)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.coord.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Current())
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	snap := s.coord.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"range_label":   snap.RangeLabel,
		"no_data":       snap.NoData,
		"region_means":  snap.RegionMeans,
		"region_levels": snap.RegionLevels,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request) {
	snap := s.coord.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"range_label": snap.RangeLabel,
		"profile":     snap.Profile,
	})
}

func (s *Server) handleWind(w http.ResponseWriter, _ *http.Request) {
	snap := s.coord.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"range_label":   snap.RangeLabel,
		"wind":          snap.Wind,
		"selected_hour": snap.State.Hour,
		"selected_wind": snap.SelectedWind,
	})
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Levels())
}

func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	data := s.coord.Dataset()
	writeJSON(w, http.StatusOK, map[string]any{
		"year":     data.Month.Year,
		"month":    int(data.Month.Month),
		"last_day": data.Month.LastDay(),
		"days":     data.ExistingDays(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Dataset().Summarize())
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.bundle.Regions)
}

func (s *Server) handleBarns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.bundle.Barns)
}

func (s *Server) handleSelectDay(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseCalendarDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	s.apply(w, r, view.SelectDay{Date: date})
}

func (s *Server) handleSelectWeek(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "week index must be an integer")
		return
	}
	s.apply(w, r, view.SelectWeek{Index: index})
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, view.SelectAll{})
}

func (s *Server) handleSetMapView(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, view.SetMapView{View: view.MapView(mux.Vars(r)["view"])})
}

func (s *Server) handleSetHour(w http.ResponseWriter, r *http.Request) {
	hour, err := strconv.Atoi(mux.Vars(r)["hour"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "hour must be an integer")
		return
	}
	s.apply(w, r, view.SetHour{Hour: hour})
}

func (s *Server) handleReleaseHour(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, view.ReleaseHour{})
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, ev view.Event) {
	snap, err := s.coord.Apply(r.Context(), ev)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
