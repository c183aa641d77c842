package app

import "errors"

// ErrJournalUnavailable and related errors describe activity-log failures.
var (
	ErrJournalUnavailable = errors.New("journal unavailable")
	ErrInvalidSession     = errors.New("invalid session id")
)
