package session

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or evicted session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionLimit is returned when the manager holds MaxSessions already.
	ErrSessionLimit = errors.New("max session limit reached")
)
