package mission

import (
	"github.com/jgates/waypoint/internal/domain/progress"
	"github.com/jgates/waypoint/internal/domain/signal"
)

// rule pairs a gap condition with the mission it emits. Gap names the
// module-level gap a rule addresses: when several rules target the same gap,
// only the highest-priority triggered one survives deduplication.
type rule struct {
	Key       string
	Module    signal.Module
	Gap       string
	Priority  Priority
	Condition func(sig signal.ModuleSignal, score progress.ProgressScore) bool
	Title     string
	Desc      string
	Route     string
	Minutes   int
}

// Rules is the complete mission rule table, in authoring order. Table order
// is the final tie-break when priority and module rank are equal, so the
// order here is part of the generator's contract.
var Rules = []rule{
	{
		Key:      "branding.define_identity",
		Module:   signal.ModuleBranding,
		Gap:      "identity",
		Priority: PriorityUrgent,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return score.Modules[signal.ModuleBranding] < 40
		},
		Title:   "Define your brand identity",
		Desc:    "Write down your mission statement, core values, and tone of voice. Everything downstream builds on this.",
		Route:   "/branding",
		Minutes: 45,
	},
	{
		Key:      "branding.complete_identity",
		Module:   signal.ModuleBranding,
		Gap:      "identity",
		Priority: PriorityImportant,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return score.Modules[signal.ModuleBranding] < 100
		},
		Title:   "Finish your brand profile",
		Desc:    "Fill in the remaining brand identity sections so your channels and content stay consistent.",
		Route:   "/branding",
		Minutes: 30,
	},
	{
		Key:      "branding.upload_logo",
		Module:   signal.ModuleBranding,
		Gap:      "logo",
		Priority: PriorityBonus,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return !sig.Branding.LogoSet && score.Modules[signal.ModuleBranding] >= 40
		},
		Title:   "Upload a logo",
		Desc:    "Add a logo or avatar image to complete your visual identity.",
		Route:   "/branding/logo",
		Minutes: 20,
	},
	{
		Key:      "profile.link_channel",
		Module:   signal.ModuleProfile,
		Gap:      "channel",
		Priority: PriorityUrgent,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return sig.Profile.ChannelCount == 0
		},
		Title:   "Connect your first channel",
		Desc:    "Link the social channel where your audience lives. Missions for content and engagement depend on it.",
		Route:   "/channels/new",
		Minutes: 15,
	},
	{
		Key:      "profile.complete_profiles",
		Module:   signal.ModuleProfile,
		Gap:      "channel",
		Priority: PriorityImportant,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			p := sig.Profile
			return p.ChannelCount > 0 && (!p.HandleSet || !p.BioSet || !p.AvatarSet)
		},
		Title:   "Complete your channel profiles",
		Desc:    "Set the handle, bio, and avatar on every linked channel so visitors recognize your brand.",
		Route:   "/channels",
		Minutes: 25,
	},
	{
		Key:      "profile.add_link",
		Module:   signal.ModuleProfile,
		Gap:      "link",
		Priority: PriorityBonus,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return sig.Profile.ChannelCount > 0 && !sig.Profile.LinkSet
		},
		Title:   "Add a profile link",
		Desc:    "Point every channel profile at your website or link hub.",
		Route:   "/channels",
		Minutes: 10,
	},
	{
		Key:      "content.first_draft",
		Module:   signal.ModuleContent,
		Gap:      "pipeline",
		Priority: PriorityUrgent,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			c := sig.Content
			return c.Drafts == 0 && c.ScheduledThisMonth+c.PublishedThisMonth == 0
		},
		Title:   "Draft your first post",
		Desc:    "Your content pipeline is empty. Draft one post to get it moving.",
		Route:   "/content/new",
		Minutes: 40,
	},
	{
		Key:      "content.schedule_posts",
		Module:   signal.ModuleContent,
		Gap:      "schedule",
		Priority: PriorityImportant,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			c := sig.Content
			return c.ScheduledThisMonth+c.PublishedThisMonth < signal.MonthlyContentTarget
		},
		Title:   "Schedule this month's posts",
		Desc:    "Get your monthly posting cadence on track by scheduling the remaining posts.",
		Route:   "/content/calendar",
		Minutes: 30,
	},
	{
		Key:      "engagement.start_conversations",
		Module:   signal.ModuleEngagement,
		Gap:      "interactions",
		Priority: PriorityUrgent,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return sig.Engagement.InteractionsThisWeek == 0 && sig.Content.PublishedThisMonth > 0
		},
		Title:   "Start conversations with your audience",
		Desc:    "You are publishing but not replying. Respond to comments before the audience moves on.",
		Route:   "/engagement",
		Minutes: 20,
	},
	{
		Key:      "engagement.daily_touchpoints",
		Module:   signal.ModuleEngagement,
		Gap:      "interactions",
		Priority: PriorityImportant,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return sig.Engagement.InteractionsThisWeek < signal.WeeklyEngagementTarget
		},
		Title:   "Engage with your audience",
		Desc:    "Reply, comment, or reach out a few times this week to keep your audience warm.",
		Route:   "/engagement",
		Minutes: 20,
	},
	{
		Key:      "website.claim_domain",
		Module:   signal.ModuleWebsite,
		Gap:      "domain",
		Priority: PriorityImportant,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return !sig.Website.DomainSet
		},
		Title:   "Claim your domain",
		Desc:    "Register or connect a domain so your site has a permanent home.",
		Route:   "/website/domain",
		Minutes: 20,
	},
	{
		Key:      "website.publish_pages",
		Module:   signal.ModuleWebsite,
		Gap:      "pages",
		Priority: PriorityBonus,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return sig.Website.DomainSet && sig.Website.PagesPublished < signal.SitePageTarget
		},
		Title:   "Publish your core pages",
		Desc:    "Get your about, work, and contact pages live.",
		Route:   "/website/pages",
		Minutes: 35,
	},
	{
		Key:      "website.link_analytics",
		Module:   signal.ModuleWebsite,
		Gap:      "analytics",
		Priority: PriorityBonus,
		Condition: func(sig signal.ModuleSignal, score progress.ProgressScore) bool {
			return sig.Website.DomainSet && !sig.Website.AnalyticsSet
		},
		Title:   "Hook up analytics",
		Desc:    "Connect an analytics property so you can see what resonates.",
		Route:   "/website/analytics",
		Minutes: 15,
	},
}

func (r rule) definition() Definition {
	return Definition{
		Key:              r.Key,
		Title:            r.Title,
		Description:      r.Desc,
		Priority:         r.Priority,
		Module:           r.Module,
		RouteHint:        r.Route,
		EstimatedMinutes: r.Minutes,
	}
}
