package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jgates/waypoint/internal/domain/cadence"
)

// CadenceRepository implements cadence.Repository for Postgres
type CadenceRepository struct {
	db *DB
}

// NewCadenceRepository creates a new CadenceRepository
func NewCadenceRepository(db *DB) *CadenceRepository {
	return &CadenceRepository{db: db}
}

// ListItems returns the user's checklist items in position order.
func (r *CadenceRepository) ListItems(ctx context.Context, userID string) ([]cadence.Item, error) {
	query := `
		SELECT id, user_id, label, position, created_at
		FROM cadence_items
		WHERE user_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cadence items: %w", err)
	}
	defer rows.Close()

	var items []cadence.Item
	for rows.Next() {
		var it cadence.Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.Label, &it.Position, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cadence item: %w", err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// CreateItems inserts checklist items in one transaction.
func (r *CadenceRepository) CreateItems(ctx context.Context, userID string, items []*cadence.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO cadence_items (id, user_id, label, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, query, it.ID, userID, it.Label, it.Position, it.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert cadence item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cadence items: %w", err)
	}
	return nil
}

// GetLog returns the day's log with its checked item IDs, or nil if absent.
func (r *CadenceRepository) GetLog(ctx context.Context, userID, day string) (*cadence.Log, error) {
	query := `
		SELECT items_total, streak_maintained
		FROM cadence_logs
		WHERE user_id = $1 AND day = $2
	`

	log := cadence.Log{UserID: userID, Day: day}
	err := r.db.QueryRowContext(ctx, query, userID, day).Scan(&log.ItemsTotal, &log.StreakMaintained)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cadence log: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM cadence_checks WHERE user_id = $1 AND day = $2`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		if err := rows.Scan(&itemID); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		log.CheckedIDs = append(log.CheckedIDs, itemID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check rows: %w", err)
	}

	return &log, nil
}

// UpsertLog writes the day's log row and replaces its check rows atomically.
func (r *CadenceRepository) UpsertLog(ctx context.Context, userID string, log *cadence.Log) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO cadence_logs (user_id, day, items_total, streak_maintained)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, day) DO UPDATE SET
			items_total = excluded.items_total,
			streak_maintained = excluded.streak_maintained
	`
	if _, err := tx.ExecContext(ctx, upsert, userID, log.Day, log.ItemsTotal, log.StreakMaintained); err != nil {
		return fmt.Errorf("failed to upsert cadence log: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cadence_checks WHERE user_id = $1 AND day = $2`, userID, log.Day); err != nil {
		return fmt.Errorf("failed to clear checks: %w", err)
	}
	for _, itemID := range log.CheckedIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cadence_checks (user_id, day, item_id) VALUES ($1, $2, $3)`,
			userID, log.Day, itemID); err != nil {
			return fmt.Errorf("failed to insert check: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cadence log: %w", err)
	}
	return nil
}

// GetStreak returns the user's streak state, or nil on cold start.
func (r *CadenceRepository) GetStreak(ctx context.Context, userID string) (*cadence.StreakState, error) {
	query := `
		SELECT user_id, current_streak, best_streak, last_check_date
		FROM streak_states
		WHERE user_id = $1
	`

	var st cadence.StreakState
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&st.UserID, &st.Current, &st.Best, &st.LastCheckDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}
	return &st, nil
}

// UpsertStreak writes the user's streak state.
func (r *CadenceRepository) UpsertStreak(ctx context.Context, userID string, state *cadence.StreakState) error {
	query := `
		INSERT INTO streak_states (user_id, current_streak, best_streak, last_check_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			last_check_date = excluded.last_check_date
	`

	if _, err := r.db.ExecContext(ctx, query, userID, state.Current, state.Best, state.LastCheckDate); err != nil {
		return fmt.Errorf("failed to upsert streak state: %w", err)
	}
	return nil
}

// ListRoutineTasks returns the user's routine tasks in creation order.
func (r *CadenceRepository) ListRoutineTasks(ctx context.Context, userID string) ([]cadence.RoutineTask, error) {
	query := `
		SELECT id, user_id, title, cadence, created_at
		FROM routine_tasks
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list routine tasks: %w", err)
	}
	defer rows.Close()

	var tasks []cadence.RoutineTask
	for rows.Next() {
		var t cadence.RoutineTask
		var cad string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &cad, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan routine task: %w", err)
		}
		t.Cadence = cadence.Cadence(cad)
		tasks = append(tasks, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// CreateRoutineTasks inserts routine tasks in one transaction.
func (r *CadenceRepository) CreateRoutineTasks(ctx context.Context, userID string, tasks []*cadence.RoutineTask) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO routine_tasks (id, user_id, title, cadence, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, t := range tasks {
		if _, err := tx.ExecContext(ctx, query, t.ID, userID, t.Title, string(t.Cadence), t.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert routine task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit routine tasks: %w", err)
	}
	return nil
}

// AddCompletion marks the task done for a period; repeats are ignored.
func (r *CadenceRepository) AddCompletion(ctx context.Context, userID, taskID, periodStart string) error {
	query := `
		INSERT INTO routine_completions (user_id, task_id, period_start)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, task_id, period_start) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, taskID, periodStart); err != nil {
		return fmt.Errorf("failed to add completion: %w", err)
	}
	return nil
}

// CompletedPeriods returns the set of period anchors with a completion.
func (r *CadenceRepository) CompletedPeriods(ctx context.Context, userID, taskID string) (map[string]bool, error) {
	query := `
		SELECT period_start
		FROM routine_completions
		WHERE user_id = $1 AND task_id = $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	periods := make(map[string]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		periods[p] = true
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completion rows: %w", err)
	}

	return periods, nil
}
