package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/repository"
)

// SignalSource implements signal.Source for SQLite. These are the
// read-only queries over collaborator tables that feed the state aggregator.
type SignalSource struct {
	db *DB
}

// NewSignalSource creates a new SignalSource
func NewSignalSource(db *DB) *SignalSource {
	return &SignalSource{db: db}
}

// BrandProfile returns the user's brand identity worksheet.
func (r *SignalSource) BrandProfile(ctx context.Context, userID string) (*signal.BrandProfile, error) {
	query := `
		SELECT user_id, mission_statement, brand_values, tone_of_voice,
		       audience_persona, logo_url, updated_at
		FROM brand_profiles
		WHERE user_id = ?
	`

	var p signal.BrandProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.MissionStatement,
		&p.Values,
		&p.ToneOfVoice,
		&p.AudiencePersona,
		&p.LogoURL,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand profile: %w", err)
	}
	return &p, nil
}

// Channels returns the user's linked channel profiles.
func (r *SignalSource) Channels(ctx context.Context, userID string) ([]signal.Channel, error) {
	query := `
		SELECT user_id, channel, handle, bio, avatar_url, link_url
		FROM channel_profiles
		WHERE user_id = ?
		ORDER BY channel ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []signal.Channel
	for rows.Next() {
		var ch signal.Channel
		if err := rows.Scan(&ch.UserID, &ch.Channel, &ch.Handle, &ch.Bio, &ch.AvatarURL, &ch.LinkURL); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, ch)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel rows: %w", err)
	}

	return channels, nil
}

// ContentCounts returns per-status content counts. Drafts are counted
// regardless of date; scheduled and published are bucketed to the month
// starting at monthStart.
func (r *SignalSource) ContentCounts(ctx context.Context, userID, monthStart string) (signal.ContentCounts, error) {
	query := `
		SELECT
			COUNT(CASE WHEN status = 'draft' THEN 1 END),
			COUNT(CASE WHEN status = 'scheduled'
				AND scheduled_for >= ? AND scheduled_for < date(?, '+1 month') THEN 1 END),
			COUNT(CASE WHEN status = 'published'
				AND published_at >= ? AND published_at < date(?, '+1 month') THEN 1 END)
		FROM content_items
		WHERE user_id = ?
	`

	var c signal.ContentCounts
	err := r.db.QueryRowContext(ctx, query,
		monthStart, monthStart, monthStart, monthStart, userID,
	).Scan(&c.Drafts, &c.Scheduled, &c.Published)
	if err != nil {
		return signal.ContentCounts{}, fmt.Errorf("failed to count content: %w", err)
	}
	return c, nil
}

// EngagementCount returns interactions logged in the week starting weekStart.
func (r *SignalSource) EngagementCount(ctx context.Context, userID, weekStart string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM engagement_logs
		WHERE user_id = ?
		  AND occurred_on >= ? AND occurred_on < date(?, '+7 days')
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, weekStart, weekStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count engagement: %w", err)
	}
	return count, nil
}

// SiteSettings returns the user's website configuration.
func (r *SignalSource) SiteSettings(ctx context.Context, userID string) (*signal.SiteSettings, error) {
	query := `
		SELECT user_id, domain, pages_published, analytics_id, updated_at
		FROM site_settings
		WHERE user_id = ?
	`

	var s signal.SiteSettings
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID,
		&s.Domain,
		&s.PagesPublished,
		&s.AnalyticsID,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}
	return &s, nil
}
