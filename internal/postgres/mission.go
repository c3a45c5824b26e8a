package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jgates/waypoint/internal/domain/mission"
	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/repository"
)

// MissionRepository implements mission.Repository for Postgres
type MissionRepository struct {
	db *DB
}

// NewMissionRepository creates a new MissionRepository
func NewMissionRepository(db *DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// CreateBatch inserts a week's missions in one transaction, with
// ON CONFLICT DO NOTHING over the idempotency key.
func (r *MissionRepository) CreateBatch(ctx context.Context, userID string, missions []*mission.Mission) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO missions
			(id, user_id, week_start, mission_key, title, description,
			 priority, module, route_hint, estimated_minutes, sort_order,
			 is_done, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, NULL, $12)
		ON CONFLICT (user_id, week_start, mission_key) DO NOTHING
	`

	for _, m := range missions {
		_, err := tx.ExecContext(ctx, query,
			m.ID,
			userID,
			m.WeekStart,
			m.Key,
			m.Title,
			m.Description,
			string(m.Priority),
			string(m.Module),
			m.RouteHint,
			m.EstimatedMinutes,
			m.SortOrder,
			m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mission %s: %w", m.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mission batch: %w", err)
	}
	return nil
}

// ListWeek returns the stored mission snapshot in generation order.
func (r *MissionRepository) ListWeek(ctx context.Context, userID, weekStart string) ([]mission.Mission, error) {
	query := `
		SELECT id, user_id, week_start, mission_key, title, description,
		       priority, module, route_hint, estimated_minutes, sort_order,
		       is_done, completed_at, created_at
		FROM missions
		WHERE user_id = $1 AND week_start = $2
		ORDER BY sort_order ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list week missions: %w", err)
	}
	defer rows.Close()

	var missions []mission.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, *m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mission rows: %w", err)
	}

	return missions, nil
}

// Get retrieves one mission by ID, scoped to the user.
func (r *MissionRepository) Get(ctx context.Context, userID, id string) (*mission.Mission, error) {
	query := `
		SELECT id, user_id, week_start, mission_key, title, description,
		       priority, module, route_hint, estimated_minutes, sort_order,
		       is_done, completed_at, created_at
		FROM missions
		WHERE id = $1 AND user_id = $2
	`

	m, err := scanMission(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}
	return m, nil
}

// SetDone updates the completion fields.
func (r *MissionRepository) SetDone(ctx context.Context, userID, id string, done bool, completedAt *time.Time) error {
	query := `
		UPDATE missions
		SET is_done = $1, completed_at = $2
		WHERE id = $3 AND user_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, done, completedAt, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// History returns per-week totals for weeks strictly before the anchor.
func (r *MissionRepository) History(ctx context.Context, userID, beforeWeekStart string, limit int) ([]mission.WeekSummary, error) {
	query := `
		SELECT week_start,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE is_done) AS done
		FROM missions
		WHERE user_id = $1 AND week_start < $2
		GROUP BY week_start
		ORDER BY week_start DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, beforeWeekStart, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission history: %w", err)
	}
	defer rows.Close()

	var summaries []mission.WeekSummary
	for rows.Next() {
		var s mission.WeekSummary
		if err := rows.Scan(&s.WeekStart, &s.Total, &s.Done); err != nil {
			return nil, fmt.Errorf("failed to scan week summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*mission.Mission, error) {
	var m mission.Mission
	var priority, module string
	var completedAt sql.NullTime
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.WeekStart,
		&m.Key,
		&m.Title,
		&m.Description,
		&priority,
		&module,
		&m.RouteHint,
		&m.EstimatedMinutes,
		&m.SortOrder,
		&m.IsDone,
		&completedAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Priority = mission.Priority(priority)
	m.Module = signal.Module(module)
	if completedAt.Valid {
		t := completedAt.Time
		m.CompletedAt = &t
	}
	return &m, nil
}
