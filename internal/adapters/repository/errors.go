package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrEmptyID      = errors.New("empty id")
	// ErrConflict is returned when a profile ID is already taken. Stored
	// profiles are never replaced.
	ErrConflict = errors.New("lineage id already exists")
)
