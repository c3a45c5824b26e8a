package cadence

import "errors"

var (
	// ErrItemNotFound indicates the checklist item doesn't exist for this user.
	ErrItemNotFound = errors.New("checklist item not found")
	// ErrTaskNotFound indicates the routine task doesn't exist for this user.
	ErrTaskNotFound = errors.New("routine task not found")
	// ErrInvalidDay indicates a malformed ISO date.
	ErrInvalidDay = errors.New("invalid date")
)
