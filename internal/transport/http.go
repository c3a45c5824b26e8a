package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgates/waypoint/internal/domain/cadence"
	"github.com/jgates/waypoint/internal/domain/mission"
	"github.com/jgates/waypoint/internal/domain/progress"
	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/week"
)

// SignalFetcher aggregates module state for scoring.
type SignalFetcher interface {
	Fetch(ctx context.Context, userID string, at time.Time, loc *time.Location) signal.ModuleSignal
}

// MissionService drives weekly mission generation and completion.
type MissionService interface {
	EnsureWeekMissions(ctx context.Context, userID, weekStart string, loc *time.Location) ([]mission.Mission, error)
	WeekMissions(ctx context.Context, userID, weekStart string) ([]mission.Mission, error)
	CompleteMission(ctx context.Context, userID, missionID string) (*mission.Mission, error)
	ListHistory(ctx context.Context, userID, beforeWeekStart string, limit int) ([]mission.WeekSummary, error)
}

// CadenceService drives the daily checklist and routine tasks.
type CadenceService interface {
	Day(ctx context.Context, userID, day string) (*cadence.DayState, error)
	ToggleItem(ctx context.Context, userID, itemID, day string) (*cadence.DayState, error)
	Routines(ctx context.Context, userID string, loc *time.Location) ([]cadence.RoutineStatus, error)
	CompleteRoutine(ctx context.Context, userID, taskID string, loc *time.Location) (*cadence.RoutineStatus, error)
}

// Server wires HTTP handlers over the domain services.
type Server struct {
	signals  SignalFetcher
	missions MissionService
	cadence  CadenceService
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates an HTTP router with middleware.
func NewServer(signals SignalFetcher, missions MissionService, cad CadenceService, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		signals:  signals,
		missions: missions,
		cadence:  cad,
		logger:   logger,
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(MetricsMiddleware)

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Get("/progress", srv.handleProgress)
		r.Post("/weeks/{week_start}/missions", srv.handleEnsureMissions)
		r.Get("/weeks/{week_start}/missions", srv.handleWeekMissions)
		r.Post("/missions/{id}/complete", srv.handleCompleteMission)
		r.Get("/missions/history", srv.handleHistory)
		r.Get("/cadence/{date}", srv.handleCadenceDay)
		r.Post("/cadence/{date}/items/{item_id}/toggle", srv.handleToggleItem)
		r.Get("/routines", srv.handleRoutines)
		r.Post("/routines/{task_id}/complete", srv.handleCompleteRoutine)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// progressResponse pairs the score with the raw signals it was derived from
// so clients can render both without a second round trip.
type progressResponse struct {
	WeekStart string                 `json:"week_start"`
	Score     progress.ProgressScore `json:"score"`
	Signals   signal.ModuleSignal    `json:"signals"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	loc := u.Location()
	now := s.now()
	sig := s.signals.Fetch(r.Context(), u.ID, now, loc)

	s.respondJSON(w, http.StatusOK, progressResponse{
		WeekStart: week.Anchor(now, loc),
		Score:     progress.Score(sig),
		Signals:   sig,
	})
}

type missionsResponse struct {
	WeekStart string            `json:"week_start"`
	Missions  []mission.Mission `json:"missions"`
}

func (s *Server) handleEnsureMissions(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	weekStart := chi.URLParam(r, "week_start")
	missions, err := s.missions.EnsureWeekMissions(r.Context(), u.ID, weekStart, u.Location())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, missionsResponse{WeekStart: weekStart, Missions: missions})
}

func (s *Server) handleWeekMissions(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	weekStart := chi.URLParam(r, "week_start")
	missions, err := s.missions.WeekMissions(r.Context(), u.ID, weekStart)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, missionsResponse{WeekStart: weekStart, Missions: missions})
}

func (s *Server) handleCompleteMission(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	m, err := s.missions.CompleteMission(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	before := r.URL.Query().Get("before")
	if before == "" {
		before = week.Anchor(s.now(), u.Location())
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	weeks, err := s.missions.ListHistory(r.Context(), u.ID, before, limit)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"weeks": weeks})
}

func (s *Server) handleCadenceDay(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	state, err := s.cadence.Day(r.Context(), u.ID, chi.URLParam(r, "date"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	state, err := s.cadence.ToggleItem(r.Context(), u.ID, chi.URLParam(r, "item_id"), chi.URLParam(r, "date"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleRoutines(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	routines, err := s.cadence.Routines(r.Context(), u.ID, u.Location())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"routines": routines})
}

func (s *Server) handleCompleteRoutine(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	status, err := s.cadence.CompleteRoutine(r.Context(), u.ID, chi.URLParam(r, "task_id"), u.Location())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

// respondDomainError maps domain sentinels to HTTP statuses.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mission.ErrInvalidWeek), errors.Is(err, cadence.ErrInvalidDay):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mission.ErrMissionNotFound),
		errors.Is(err, cadence.ErrItemNotFound),
		errors.Is(err, cadence.ErrTaskNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
