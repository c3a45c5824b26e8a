// Package repository holds the sentinel errors shared by every store
// backend. It imports no domain code so that domain services can depend on
// it while the stores depend on the domain types. The persistence contracts
// themselves live with the domains that own them (signal.Source,
// mission.Repository, cadence.Repository, user.Repository).
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with a concurrent update
	ErrConflict = errors.New("conflict: entity was modified concurrently")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
