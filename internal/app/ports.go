package app

import (
	"context"

	"github.com/evanschultz/todos/internal/domain"
)

// Journal stores change events for the activity log.
type Journal interface {
	RecordChange(context.Context, domain.ChangeEvent) error
	ListChangeEvents(context.Context, string, int) ([]domain.ChangeEvent, error)
}
