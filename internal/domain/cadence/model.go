package cadence

import "time"

// Item is one entry on the user's daily checklist.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Label     string    `json:"label"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is the checklist state for one user-day. StreakMaintained holds when
// at least 60% of the day's items were checked (rounded up).
type Log struct {
	UserID           string   `json:"user_id"`
	Day              string   `json:"date"`
	CheckedIDs       []string `json:"items_checked"`
	ItemsTotal       int      `json:"items_total"`
	StreakMaintained bool     `json:"streak_maintained"`
}

// StreakState is the user's running daily-streak counters. A missing state
// row means cold start, not an error.
type StreakState struct {
	UserID        string `json:"user_id"`
	Current       int    `json:"current_streak"`
	Best          int    `json:"best_streak"`
	LastCheckDate string `json:"last_check_date"`
}

// Cadence is the recurrence of a routine task.
type Cadence string

const (
	CadenceWeekly  Cadence = "week"
	CadenceMonthly Cadence = "month"
)

// RoutineTask is a recurring task tracked per week or month bucket.
type RoutineTask struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Cadence   Cadence   `json:"cadence"`
	CreatedAt time.Time `json:"created_at"`
}

// RoutineStatus pairs a task with its derived streak and current-period state.
type RoutineStatus struct {
	Task          RoutineTask `json:"task"`
	Streak        int         `json:"streak"`
	DoneThisCycle bool        `json:"done_this_cycle"`
}
