// Package postgres provides a Postgres-backed implementation of the
// repository contracts, mirroring the SQLite store's semantics for
// deployments that outgrow a single file database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// DB wraps a Postgres database connection
type DB struct {
	*sql.DB
}

// New opens a Postgres connection via the pgx stdlib driver and verifies it.
func New(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{db}, nil
}

// RunMigrations applies the schema. Semantics match the SQLite schema; the
// unique constraint on (user_id, week_start, mission_key) carries the
// idempotent-generation guarantee here too.
func (db *DB) RunMigrations(ctx context.Context) error {
	migration := `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    timezone TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    description TEXT,
    created_at TIMESTAMPTZ DEFAULT now(),
    last_used TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_user_keys ON api_keys(user_id);

CREATE TABLE IF NOT EXISTS brand_profiles (
    user_id TEXT PRIMARY KEY REFERENCES users(id),
    mission_statement TEXT NOT NULL DEFAULT '',
    brand_values TEXT NOT NULL DEFAULT '',
    tone_of_voice TEXT NOT NULL DEFAULT '',
    audience_persona TEXT NOT NULL DEFAULT '',
    logo_url TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS channel_profiles (
    user_id TEXT NOT NULL REFERENCES users(id),
    channel TEXT NOT NULL,
    handle TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    link_url TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (user_id, channel)
);

CREATE TABLE IF NOT EXISTS content_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    title TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('draft', 'scheduled', 'published')),
    scheduled_for DATE,
    published_at DATE,
    created_at TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_user_content ON content_items(user_id);

CREATE TABLE IF NOT EXISTS engagement_logs (
    id BIGSERIAL PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    kind TEXT NOT NULL,
    occurred_on DATE NOT NULL,
    note TEXT
);
CREATE INDEX IF NOT EXISTS idx_user_engagement ON engagement_logs(user_id, occurred_on);

CREATE TABLE IF NOT EXISTS site_settings (
    user_id TEXT PRIMARY KEY REFERENCES users(id),
    domain TEXT NOT NULL DEFAULT '',
    pages_published INTEGER NOT NULL DEFAULT 0,
    analytics_id TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS missions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    week_start TEXT NOT NULL,
    mission_key TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    priority TEXT NOT NULL CHECK(priority IN ('urgent', 'important', 'bonus')),
    module TEXT NOT NULL,
    route_hint TEXT NOT NULL DEFAULT '',
    estimated_minutes INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0,
    is_done BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, week_start, mission_key)
);
CREATE INDEX IF NOT EXISTS idx_user_week_missions ON missions(user_id, week_start);

CREATE TABLE IF NOT EXISTS cadence_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    label TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_user_items ON cadence_items(user_id);

CREATE TABLE IF NOT EXISTS cadence_logs (
    user_id TEXT NOT NULL REFERENCES users(id),
    day TEXT NOT NULL,
    items_total INTEGER NOT NULL,
    streak_maintained BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (user_id, day)
);

CREATE TABLE IF NOT EXISTS cadence_checks (
    user_id TEXT NOT NULL,
    day TEXT NOT NULL,
    item_id TEXT NOT NULL REFERENCES cadence_items(id),
    PRIMARY KEY (user_id, day, item_id)
);

CREATE TABLE IF NOT EXISTS streak_states (
    user_id TEXT PRIMARY KEY REFERENCES users(id),
    current_streak INTEGER NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    last_check_date TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS routine_tasks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    title TEXT NOT NULL,
    cadence TEXT NOT NULL CHECK(cadence IN ('week', 'month')),
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_user_routines ON routine_tasks(user_id);

CREATE TABLE IF NOT EXISTS routine_completions (
    user_id TEXT NOT NULL,
    task_id TEXT NOT NULL REFERENCES routine_tasks(id),
    period_start TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT now(),
    PRIMARY KEY (user_id, task_id, period_start)
);
`

	if _, err := db.ExecContext(ctx, migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
