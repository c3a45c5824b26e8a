package user

import "context"

// Repository provides account lookup and API-key resolution.
type Repository interface {
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	// ResolveAPIKey maps a sha256 key hash to the owning user ID.
	ResolveAPIKey(ctx context.Context, keyHash string) (string, error)
}
