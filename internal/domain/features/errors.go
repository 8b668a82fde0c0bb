package features

import "errors"

// Sentinel kinds for feature-building errors.
var (
	// ErrNoEvents means the reference date is undefined because the event
	// log is empty.
	ErrNoEvents = errors.New("no events: reference date undefined")

	// ErrDuplicateUser means the users table violates the unique-key
	// invariant on user_id.
	ErrDuplicateUser = errors.New("duplicate user_id in users table")
)
