package signal

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jgates/waypoint/internal/repository"
	"github.com/jgates/waypoint/internal/week"
)

// Service aggregates raw collaborator state into one ModuleSignal.
type Service struct {
	source Source
	logger *slog.Logger
}

// NewService creates a new signal aggregation service.
func NewService(source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// Fetch reads every module's raw state for the user and normalizes it. It
// never returns an error: a missing or unreadable record folds to the zero
// signal for that module, so the planning pipeline always has a total input.
// Read failures are logged so operators can tell them apart from genuinely
// empty state; callers cannot.
func (s *Service) Fetch(ctx context.Context, userID string, at time.Time, loc *time.Location) ModuleSignal {
	var sig ModuleSignal

	brand, err := s.source.BrandProfile(ctx, userID)
	if s.readable(err, userID, "brand_profile") && brand != nil {
		sig.Branding = BrandingSignal{
			MissionSet: set(brand.MissionStatement),
			ValuesSet:  set(brand.Values),
			ToneSet:    set(brand.ToneOfVoice),
			PersonaSet: set(brand.AudiencePersona),
			LogoSet:    set(brand.LogoURL),
		}
	}

	channels, err := s.source.Channels(ctx, userID)
	if s.readable(err, userID, "channels") && len(channels) > 0 {
		sig.Profile = ProfileSignal{
			ChannelCount: len(channels),
			HandleSet:    true,
			BioSet:       true,
			AvatarSet:    true,
			LinkSet:      true,
		}
		for _, ch := range channels {
			sig.Profile.HandleSet = sig.Profile.HandleSet && set(ch.Handle)
			sig.Profile.BioSet = sig.Profile.BioSet && set(ch.Bio)
			sig.Profile.AvatarSet = sig.Profile.AvatarSet && set(ch.AvatarURL)
			sig.Profile.LinkSet = sig.Profile.LinkSet && set(ch.LinkURL)
		}
	}

	counts, err := s.source.ContentCounts(ctx, userID, week.MonthAnchor(at, loc))
	if s.readable(err, userID, "content_counts") {
		sig.Content = ContentSignal{
			Drafts:             counts.Drafts,
			ScheduledThisMonth: counts.Scheduled,
			PublishedThisMonth: counts.Published,
		}
	}

	interactions, err := s.source.EngagementCount(ctx, userID, week.Anchor(at, loc))
	if s.readable(err, userID, "engagement_count") {
		sig.Engagement = EngagementSignal{InteractionsThisWeek: interactions}
	}

	site, err := s.source.SiteSettings(ctx, userID)
	if s.readable(err, userID, "site_settings") && site != nil {
		sig.Website = WebsiteSignal{
			DomainSet:      set(site.Domain),
			PagesPublished: site.PagesPublished,
			AnalyticsSet:   set(site.AnalyticsID),
		}
	}

	return sig
}

// readable reports whether a source read produced usable data. Not-found is
// ordinary absence; anything else is folded to absence too, but logged.
func (s *Service) readable(err error, userID, record string) bool {
	if err == nil {
		return true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("signal read failed, folding to zero",
			"user_id", userID, "record", record, "error", err)
	}
	return false
}

func set(v string) bool {
	return strings.TrimSpace(v) != ""
}
