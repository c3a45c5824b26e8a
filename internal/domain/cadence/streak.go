package cadence

import "github.com/jgates/waypoint/internal/week"

// Maintained reports whether checking `checked` of `total` items keeps the
// streak alive: at least 60% of the day's items, rounded up. A day with no
// items cannot maintain a streak.
func Maintained(checked, total int) bool {
	if total <= 0 {
		return false
	}
	return checked >= (3*total+4)/5 // ceil(total * 0.6)
}

// NextStreak applies one day's outcome to the streak state. prev == nil is a
// cold start. The returned state always has LastCheckDate == day, so a
// non-maintained day still becomes the baseline for the next continuity
// check. Re-applying the same day never double-increments.
func NextStreak(prev *StreakState, userID, day string, maintained bool) StreakState {
	if prev == nil || prev.LastCheckDate == "" {
		current := 0
		if maintained {
			current = 1
		}
		return StreakState{
			UserID:        userID,
			Current:       current,
			Best:          current,
			LastCheckDate: day,
		}
	}

	next := StreakState{UserID: userID, Best: prev.Best, LastCheckDate: day}
	if maintained {
		yesterday, err := week.PrevDay(day)
		switch {
		case err == nil && prev.LastCheckDate == yesterday:
			next.Current = prev.Current + 1
		case prev.LastCheckDate == day:
			next.Current = max(prev.Current, 1)
		default:
			next.Current = 1
		}
	}
	if next.Current > next.Best {
		next.Best = next.Current
	}
	return next
}

// PeriodStreak counts consecutive period anchors, walking backward from
// current, that contain at least one completion. If the current period has
// none yet, counting starts at the previous anchor instead, so an untouched
// new week doesn't break a live streak. prev steps one anchor back.
func PeriodStreak(completed map[string]bool, current string, prev func(string) (string, error)) int {
	anchor := current
	if !completed[anchor] {
		var err error
		anchor, err = prev(anchor)
		if err != nil {
			return 0
		}
	}

	streak := 0
	for completed[anchor] {
		streak++
		var err error
		anchor, err = prev(anchor)
		if err != nil {
			break
		}
	}
	return streak
}
