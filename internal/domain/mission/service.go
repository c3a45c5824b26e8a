package mission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jgates/waypoint/internal/domain/progress"
	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/repository"
	"github.com/jgates/waypoint/internal/week"
)

// historyWindow bounds how many past weeks ListHistory returns.
const historyWindow = 8

// SignalFetcher supplies the normalized module signal for a user.
type SignalFetcher interface {
	Fetch(ctx context.Context, userID string, at time.Time, loc *time.Location) signal.ModuleSignal
}

// Service owns weekly mission generation and completion.
type Service struct {
	signals  SignalFetcher
	missions Repository
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new mission service.
func NewService(signals SignalFetcher, missions Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		signals:  signals,
		missions: missions,
		logger:   logger,
		now:      time.Now,
	}
}

// EnsureWeekMissions returns the mission set for (user, week), generating and
// persisting it if this is the first visit. A week that already has missions
// is returned untouched: the set is a snapshot taken at first generation and
// never re-derived, even if the underlying signals have since changed.
//
// Concurrent first visits are resolved by the store's unique constraint on
// (user_id, week_start, mission_key); the loser's inserts are ignored and
// both callers read back the same rows.
func (s *Service) EnsureWeekMissions(ctx context.Context, userID, weekStart string, loc *time.Location) ([]Mission, error) {
	if _, err := week.ParseAnchor(weekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeek, err)
	}

	existing, err := s.missions.ListWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("listing week missions: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := s.now()
	sig := s.signals.Fetch(ctx, userID, now, loc)
	// An all-signals-full week stores no rows, so the "already generated"
	// check cannot tell it apart from a never-visited week. If signals
	// later regress, a revisit re-derives the set for that anchor. The
	// result is still capped and keyed per week, so the cost is a late
	// snapshot, not duplicates.
	defs := Generate(sig, progress.Score(sig))
	if len(defs) == 0 {
		return []Mission{}, nil
	}

	batch := make([]*Mission, len(defs))
	for i, def := range defs {
		batch[i] = &Mission{
			ID:               uuid.NewString(),
			UserID:           userID,
			WeekStart:        weekStart,
			Key:              def.Key,
			Title:            def.Title,
			Description:      def.Description,
			Priority:         def.Priority,
			Module:           def.Module,
			RouteHint:        def.RouteHint,
			EstimatedMinutes: def.EstimatedMinutes,
			SortOrder:        i,
			CreatedAt:        now,
		}
	}

	if err := s.missions.CreateBatch(ctx, userID, batch); err != nil {
		return nil, fmt.Errorf("persisting week missions: %w", err)
	}

	s.logger.Info("generated week missions",
		"user_id", userID, "week_start", weekStart, "count", len(batch))

	// Read back so a lost insert race still returns the winning snapshot.
	return s.missions.ListWeek(ctx, userID, weekStart)
}

// WeekMissions returns the stored mission set without generating.
func (s *Service) WeekMissions(ctx context.Context, userID, weekStart string) ([]Mission, error) {
	if _, err := week.ParseAnchor(weekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeek, err)
	}
	return s.missions.ListWeek(ctx, userID, weekStart)
}

// CompleteMission marks a mission done. Completion is one-way here; the
// repository keeps the reverse transition for tests only.
func (s *Service) CompleteMission(ctx context.Context, userID, missionID string) (*Mission, error) {
	m, err := s.missions.Get(ctx, userID, missionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, fmt.Errorf("loading mission: %w", err)
	}
	if m.IsDone {
		return m, nil
	}

	completedAt := s.now()
	if err := s.missions.SetDone(ctx, userID, missionID, true, &completedAt); err != nil {
		return nil, fmt.Errorf("completing mission: %w", err)
	}
	m.IsDone = true
	m.CompletedAt = &completedAt
	return m, nil
}

// ListHistory returns per-week completion tuples for weeks strictly before
// beforeWeekStart, most recent first, capped to historyWindow.
func (s *Service) ListHistory(ctx context.Context, userID, beforeWeekStart string, limit int) ([]WeekSummary, error) {
	if _, err := week.ParseAnchor(beforeWeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeek, err)
	}
	if limit <= 0 || limit > historyWindow {
		limit = historyWindow
	}
	return s.missions.History(ctx, userID, beforeWeekStart, limit)
}
