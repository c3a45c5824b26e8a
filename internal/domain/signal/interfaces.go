package signal

import "context"

// Source reads raw collaborator records for one user.
type Source interface {
	BrandProfile(ctx context.Context, userID string) (*BrandProfile, error)
	Channels(ctx context.Context, userID string) ([]Channel, error)
	ContentCounts(ctx context.Context, userID, monthStart string) (ContentCounts, error)
	EngagementCount(ctx context.Context, userID, weekStart string) (int, error)
	SiteSettings(ctx context.Context, userID string) (*SiteSettings, error)
}
