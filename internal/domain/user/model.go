// Package user holds the account settings the core needs: identity and the
// timezone that fixes week-anchor computation for this user.
package user

import (
	"errors"
	"time"
)

// ErrUserNotFound indicates no such user.
var ErrUserNotFound = errors.New("user not found")

// User is one account. Timezone is an IANA zone name; empty means UTC.
type User struct {
	ID        string    `json:"id"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

// Location resolves the user's timezone, falling back to UTC if the zone is
// unset or unknown. Week and day anchors must always be computed in this
// location, never the server's local clock.
func (u *User) Location() *time.Location {
	if u == nil || u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
