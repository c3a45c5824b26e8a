// Package progress turns a normalized ModuleSignal into percentage scores.
// Everything here is pure: no I/O, no clock, no state.
package progress

import (
	"math"

	"github.com/jgates/waypoint/internal/domain/signal"
)

// ProgressScore holds one 0..100 score per module plus a weighted global score.
type ProgressScore struct {
	Modules map[signal.Module]int `json:"modules"`
	Global  int                   `json:"global"`
}

// Weights assigns the relative importance of each module in the global score.
// Values are normalized by their sum, so any positive scale works.
type Weights map[signal.Module]float64

// DefaultWeights weighs foundational modules (branding, content) slightly
// above the rest. Override via ScoreWith in tests or future settings.
var DefaultWeights = Weights{
	signal.ModuleBranding:   25,
	signal.ModuleProfile:    20,
	signal.ModuleContent:    25,
	signal.ModuleEngagement: 15,
	signal.ModuleWebsite:    15,
}

// Score computes all module scores and the global score with DefaultWeights.
func Score(sig signal.ModuleSignal) ProgressScore {
	return ScoreWith(DefaultWeights, sig)
}

// ScoreWith computes scores using the given weight table. Modules missing
// from the table contribute zero weight to the global score; their module
// score is still reported.
func ScoreWith(weights Weights, sig signal.ModuleSignal) ProgressScore {
	modules := map[signal.Module]int{
		signal.ModuleBranding:   brandingScore(sig.Branding),
		signal.ModuleProfile:    profileScore(sig.Profile),
		signal.ModuleContent:    contentScore(sig.Content),
		signal.ModuleEngagement: engagementScore(sig.Engagement),
		signal.ModuleWebsite:    websiteScore(sig.Website),
	}

	var sum, totalWeight float64
	for _, m := range signal.ModuleOrder {
		w := weights[m]
		if w <= 0 {
			continue
		}
		sum += w * float64(modules[m])
		totalWeight += w
	}

	global := 0
	if totalWeight > 0 {
		global = clamp(int(math.Round(sum / totalWeight)))
	}

	return ProgressScore{Modules: modules, Global: global}
}

func brandingScore(b signal.BrandingSignal) int {
	return ratio(count(b.MissionSet, b.ValuesSet, b.ToneSet, b.PersonaSet, b.LogoSet), 5)
}

func profileScore(p signal.ProfileSignal) int {
	if p.ChannelCount == 0 {
		return 0
	}
	return ratio(count(p.HandleSet, p.BioSet, p.AvatarSet, p.LinkSet), 4)
}

func contentScore(c signal.ContentSignal) int {
	return ratio(min(c.ScheduledThisMonth+c.PublishedThisMonth, signal.MonthlyContentTarget), signal.MonthlyContentTarget)
}

func engagementScore(e signal.EngagementSignal) int {
	return ratio(min(e.InteractionsThisWeek, signal.WeeklyEngagementTarget), signal.WeeklyEngagementTarget)
}

func websiteScore(w signal.WebsiteSignal) int {
	pages := float64(min(w.PagesPublished, signal.SitePageTarget)) / signal.SitePageTarget
	parts := (boolVal(w.DomainSet) + pages + boolVal(w.AnalyticsSet)) / 3
	return clamp(int(math.Round(parts * 100)))
}

func ratio(have, want int) int {
	if want <= 0 || have <= 0 {
		return 0
	}
	return clamp(int(math.Round(float64(have) / float64(want) * 100)))
}

func count(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
