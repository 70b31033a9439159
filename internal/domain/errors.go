package domain

import "errors"

// Common errors shared across stores and the generation boundary.
var (
	// ErrSessionNotFound is returned for operations on a session id the
	// session store never held. History operations are tolerant of
	// missing ids; session deletion is not.
	ErrSessionNotFound = errors.New("session not found")

	// ErrGenerationUnavailable wraps any failure of the upstream text
	// generator, including deadline expiry. It is retryable: the session
	// never advances past a failed generation call.
	ErrGenerationUnavailable = errors.New("generation unavailable")
)
