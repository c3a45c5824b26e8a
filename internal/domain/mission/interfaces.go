package mission

import (
	"context"
	"time"
)

// Repository provides persistence for weekly mission snapshots.
type Repository interface {
	// CreateBatch inserts the missions with insert-or-ignore semantics over
	// the (user_id, week_start, mission_key) unique constraint, so a lost
	// generation race is harmless.
	CreateBatch(ctx context.Context, userID string, missions []*Mission) error
	ListWeek(ctx context.Context, userID, weekStart string) ([]Mission, error)
	Get(ctx context.Context, userID, id string) (*Mission, error)
	// SetDone is reversible at this layer for test isolation; the service
	// only ever exposes the completing direction.
	SetDone(ctx context.Context, userID, id string, done bool, completedAt *time.Time) error
	History(ctx context.Context, userID, beforeWeekStart string, limit int) ([]WeekSummary, error)
}
