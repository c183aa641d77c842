package domain

import "time"

// ChangeOperation describes a recorded board operation.
type ChangeOperation string

// ChangeOperation values used by the activity ledger.
const (
	ChangeOperationAdd            ChangeOperation = "add"
	ChangeOperationToggle         ChangeOperation = "toggle"
	ChangeOperationRemove         ChangeOperation = "remove"
	ChangeOperationClearCompleted ChangeOperation = "clear_completed"
	ChangeOperationFilter         ChangeOperation = "filter"
	ChangeOperationTheme          ChangeOperation = "theme"
)

// ChangeEvent represents a single activity-log entry for one session.
type ChangeEvent struct {
	ID         int64
	SessionID  string
	TaskID     int64
	Operation  ChangeOperation
	Text       string
	OccurredAt time.Time
}
