package store

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested tournament does not exist.
	ErrNotFound = errors.New("tournament not found")

	// ErrNoRowsAffected indicates an UPDATE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrUnknownCompetitor indicates a stored match refers to a competitor
	// that is not registered in its tournament.
	ErrUnknownCompetitor = errors.New("match refers to an unknown competitor")
)
