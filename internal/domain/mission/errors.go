package mission

import "errors"

var (
	// ErrMissionNotFound indicates the mission doesn't exist for this user.
	ErrMissionNotFound = errors.New("mission not found")
	// ErrInvalidWeek indicates a malformed or non-Monday week anchor.
	ErrInvalidWeek = errors.New("invalid week anchor")
)
