// Package week provides calendar anchor helpers. All anchors are ISO dates
// (YYYY-MM-DD) computed in an explicit *time.Location: week anchors are the
// Monday of the containing week, month anchors the first of the month. The
// location comes from the user's stored timezone setting, never from the
// process-local clock.
package week

import (
	"fmt"
	"time"
)

// ISODate is the layout for all anchor and day strings.
const ISODate = "2006-01-02"

// Day returns the ISO date of t in loc.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ISODate)
}

// Anchor returns the Monday-anchored ISO date of the week containing t,
// evaluated in loc.
func Anchor(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Format(ISODate)
}

// MonthAnchor returns the first-of-month ISO date for the month containing t,
// evaluated in loc.
func MonthAnchor(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc).Format(ISODate)
}

// ParseDay parses an ISO date string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseAnchor parses an ISO date and verifies it falls on a Monday.
func ParseAnchor(s string) (time.Time, error) {
	t, err := ParseDay(s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("week anchor %q is not a Monday", s)
	}
	return t, nil
}

// PrevDay returns the ISO date one day before day.
func PrevDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(ISODate), nil
}

// PrevWeek returns the anchor one week before anchor.
func PrevWeek(anchor string) (string, error) {
	t, err := ParseAnchor(anchor)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -7).Format(ISODate), nil
}

// PrevMonth returns the month anchor one month before anchor.
func PrevMonth(anchor string) (string, error) {
	t, err := ParseDay(anchor)
	if err != nil {
		return "", err
	}
	return time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, time.UTC).Format(ISODate), nil
}
