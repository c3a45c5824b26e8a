package mission

import (
	"time"

	"github.com/jgates/waypoint/internal/domain/signal"
)

// Priority ranks how badly a mission is needed this week.
type Priority string

const (
	PriorityUrgent    Priority = "urgent"
	PriorityImportant Priority = "important"
	PriorityBonus     Priority = "bonus"
)

// rank orders priorities for sorting and deduplication; lower sorts first.
func (p Priority) rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityImportant:
		return 1
	default:
		return 2
	}
}

// Definition is a rule-produced mission template. Key identifies the rule
// that produced it and is stable across invocations; it is never random or
// time-derived, which is what makes persisted generation idempotent.
type Definition struct {
	Key              string        `json:"key"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Priority         Priority      `json:"priority"`
	Module           signal.Module `json:"module"`
	RouteHint        string        `json:"route_hint"`
	EstimatedMinutes int           `json:"estimated_minutes"`
}

// Mission is a persisted mission instance for one user-week. Created once per
// (user, week, key); only the completion fields ever change afterwards.
type Mission struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	WeekStart        string        `json:"week_start"`
	Key              string        `json:"mission_key"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Priority         Priority      `json:"priority"`
	Module           signal.Module `json:"module"`
	RouteHint        string        `json:"route_hint"`
	EstimatedMinutes int           `json:"estimated_minutes"`
	// SortOrder preserves the generator's ranking within the week.
	SortOrder   int        `json:"-"`
	IsDone      bool       `json:"is_done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// WeekSummary is a history tuple for one past week.
type WeekSummary struct {
	WeekStart string `json:"week_start"`
	Total     int    `json:"total"`
	Done      int    `json:"done"`
}
