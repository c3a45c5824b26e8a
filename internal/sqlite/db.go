package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the schema. The unique constraint on
// (user_id, week_start, mission_key) is load-bearing: it is what makes
// first-generation-of-the-week races safe.
func (db *DB) RunMigrations() error {
	migration := `
-- Accounts
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    timezone TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_user_keys ON api_keys(user_id);

-- Collaborator state (read contract for the signal aggregator)
CREATE TABLE IF NOT EXISTS brand_profiles (
    user_id TEXT PRIMARY KEY,
    mission_statement TEXT NOT NULL DEFAULT '',
    brand_values TEXT NOT NULL DEFAULT '',
    tone_of_voice TEXT NOT NULL DEFAULT '',
    audience_persona TEXT NOT NULL DEFAULT '',
    logo_url TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS channel_profiles (
    user_id TEXT NOT NULL,
    channel TEXT NOT NULL,
    handle TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    link_url TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (user_id, channel),
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS content_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('draft', 'scheduled', 'published')),
    scheduled_for TEXT,
    published_at TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_user_content ON content_items(user_id);

CREATE TABLE IF NOT EXISTS engagement_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    occurred_on TEXT NOT NULL,
    note TEXT,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_user_engagement ON engagement_logs(user_id, occurred_on);

CREATE TABLE IF NOT EXISTS site_settings (
    user_id TEXT PRIMARY KEY,
    domain TEXT NOT NULL DEFAULT '',
    pages_published INTEGER NOT NULL DEFAULT 0,
    analytics_id TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

-- Weekly mission snapshots
CREATE TABLE IF NOT EXISTS missions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    week_start TEXT NOT NULL,
    mission_key TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    priority TEXT NOT NULL CHECK(priority IN ('urgent', 'important', 'bonus')),
    module TEXT NOT NULL,
    route_hint TEXT NOT NULL DEFAULT '',
    estimated_minutes INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0,
    is_done INTEGER NOT NULL DEFAULT 0,
    completed_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, week_start, mission_key),
    FOREIGN KEY (user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_user_week_missions ON missions(user_id, week_start);

-- Daily cadence checklist
CREATE TABLE IF NOT EXISTS cadence_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    label TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_user_items ON cadence_items(user_id);

CREATE TABLE IF NOT EXISTS cadence_logs (
    user_id TEXT NOT NULL,
    day TEXT NOT NULL,
    items_total INTEGER NOT NULL,
    streak_maintained INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, day),
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS cadence_checks (
    user_id TEXT NOT NULL,
    day TEXT NOT NULL,
    item_id TEXT NOT NULL,
    PRIMARY KEY (user_id, day, item_id),
    FOREIGN KEY (item_id) REFERENCES cadence_items(id)
);

CREATE TABLE IF NOT EXISTS streak_states (
    user_id TEXT PRIMARY KEY,
    current_streak INTEGER NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    last_check_date TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (user_id) REFERENCES users(id)
);

-- Recurring routine tracker
CREATE TABLE IF NOT EXISTS routine_tasks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    cadence TEXT NOT NULL CHECK(cadence IN ('week', 'month')),
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_user_routines ON routine_tasks(user_id);

CREATE TABLE IF NOT EXISTS routine_completions (
    user_id TEXT NOT NULL,
    task_id TEXT NOT NULL,
    period_start TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, task_id, period_start),
    FOREIGN KEY (task_id) REFERENCES routine_tasks(id)
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
