package session

import "errors"

var (
	// ErrConcurrentRun is returned when an action needs an idle controller
	// but a run is active.
	ErrConcurrentRun = errors.New("session: a run is already active")

	// ErrNoValues is returned when a search without a target is started on
	// an empty array.
	ErrNoValues = errors.New("session: array has no values to search")
)
