package cadence

import "context"

// Repository provides persistence for checklist items, day logs, streak
// state, and routine completions.
type Repository interface {
	ListItems(ctx context.Context, userID string) ([]Item, error)
	CreateItems(ctx context.Context, userID string, items []*Item) error

	GetLog(ctx context.Context, userID, day string) (*Log, error)
	UpsertLog(ctx context.Context, userID string, log *Log) error

	GetStreak(ctx context.Context, userID string) (*StreakState, error)
	UpsertStreak(ctx context.Context, userID string, state *StreakState) error

	ListRoutineTasks(ctx context.Context, userID string) ([]RoutineTask, error)
	CreateRoutineTasks(ctx context.Context, userID string, tasks []*RoutineTask) error
	// AddCompletion is insert-or-ignore on (user_id, task_id, period_start).
	AddCompletion(ctx context.Context, userID, taskID, periodStart string) error
	// CompletedPeriods returns the set of period anchors with at least one
	// completion for the task.
	CompletedPeriods(ctx context.Context, userID, taskID string) (map[string]bool, error)
}
