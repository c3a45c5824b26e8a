package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jgates/waypoint/internal/domain/user"
	"github.com/jgates/waypoint/internal/repository"
)

// UserRepository implements user.Repository for Postgres
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Get retrieves a user by ID.
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT id, timezone, created_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Timezone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, timezone, created_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Timezone, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ResolveAPIKey maps a key hash to its owning user and stamps last_used.
func (r *UserRepository) ResolveAPIKey(ctx context.Context, keyHash string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM api_keys WHERE key_hash = $1`, keyHash).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	_, _ = r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = now() WHERE key_hash = $1`, keyHash)

	return userID, nil
}
