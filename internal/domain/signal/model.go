package signal

import "time"

// Module identifies one independently-scored area of the project.
type Module string

const (
	ModuleBranding   Module = "branding"
	ModuleProfile    Module = "profile"
	ModuleContent    Module = "content"
	ModuleEngagement Module = "engagement"
	ModuleWebsite    Module = "website"
)

// ModuleOrder lists modules in dependency order: upstream modules first, so
// planners can rank work on a gap before work that depends on it.
var ModuleOrder = []Module{
	ModuleBranding,
	ModuleProfile,
	ModuleContent,
	ModuleEngagement,
	ModuleWebsite,
}

// Targets that turn raw counters into completion ratios.
const (
	// MonthlyContentTarget is the number of scheduled-or-published posts per
	// month that counts as a fully on-track content pipeline.
	MonthlyContentTarget = 4
	// WeeklyEngagementTarget is the number of audience interactions per week
	// that counts as fully engaged.
	WeeklyEngagementTarget = 5
	// SitePageTarget is the number of published pages for a complete site.
	SitePageTarget = 3
)

// BrandingSignal reflects which sections of the brand identity are filled in.
type BrandingSignal struct {
	MissionSet bool `json:"mission_set"`
	ValuesSet  bool `json:"values_set"`
	ToneSet    bool `json:"tone_set"`
	PersonaSet bool `json:"persona_set"`
	LogoSet    bool `json:"logo_set"`
}

// ProfileSignal reflects completeness of the user's linked channel profiles.
// The per-field flags hold only when every linked channel has the field set.
type ProfileSignal struct {
	ChannelCount int  `json:"channel_count"`
	HandleSet    bool `json:"handle_set"`
	BioSet       bool `json:"bio_set"`
	AvatarSet    bool `json:"avatar_set"`
	LinkSet      bool `json:"link_set"`
}

// ContentSignal counts the content pipeline for the current month.
type ContentSignal struct {
	Drafts             int `json:"drafts"`
	ScheduledThisMonth int `json:"scheduled_this_month"`
	PublishedThisMonth int `json:"published_this_month"`
}

// EngagementSignal counts audience interactions for the current week.
type EngagementSignal struct {
	InteractionsThisWeek int `json:"interactions_this_week"`
}

// WebsiteSignal reflects website setup state.
type WebsiteSignal struct {
	DomainSet      bool `json:"domain_set"`
	PagesPublished int  `json:"pages_published"`
	AnalyticsSet   bool `json:"analytics_set"`
}

// ModuleSignal is the normalized completion state across all modules. It is
// recomputed on every read and never persisted.
type ModuleSignal struct {
	Branding   BrandingSignal   `json:"branding"`
	Profile    ProfileSignal    `json:"profile"`
	Content    ContentSignal    `json:"content"`
	Engagement EngagementSignal `json:"engagement"`
	Website    WebsiteSignal    `json:"website"`
}

// Raw collaborator records as stored. The aggregator is the only reader; the
// rest of the pipeline sees ModuleSignal.

// BrandProfile is the stored brand identity worksheet.
type BrandProfile struct {
	UserID           string
	MissionStatement string
	Values           string
	ToneOfVoice      string
	AudiencePersona  string
	LogoURL          string
	UpdatedAt        time.Time
}

// Channel is one linked social channel profile.
type Channel struct {
	UserID    string
	Channel   string
	Handle    string
	Bio       string
	AvatarURL string
	LinkURL   string
}

// ContentCounts are per-status content item counts for one month window.
type ContentCounts struct {
	Drafts    int
	Scheduled int
	Published int
}

// SiteSettings is the stored website configuration.
type SiteSettings struct {
	UserID         string
	Domain         string
	PagesPublished int
	AnalyticsID    string
	UpdatedAt      time.Time
}
