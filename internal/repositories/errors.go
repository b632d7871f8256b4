package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced user or group does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a uniqueness violation (username, email, group name).
	ErrConflict = errors.New("already exists")
)
