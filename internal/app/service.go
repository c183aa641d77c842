package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/todos/internal/domain"
)

// defaultActivityLimit caps activity-log reads when no limit is configured.
const defaultActivityLimit = 50

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	SessionID     string
	ActivityLimit int
}

// Service records board changes into a journal scoped to one session.
type Service struct {
	journal   Journal
	clock     Clock
	sessionID string
	limit     int
}

// NewService constructs a new value for this package. A nil journal yields a service
// whose calls return ErrJournalUnavailable.
func NewService(journal Journal, clock Clock, cfg ServiceConfig) *Service {
	if clock == nil {
		clock = time.Now
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = defaultActivityLimit
	}
	return &Service{
		journal:   journal,
		clock:     clock,
		sessionID: strings.TrimSpace(cfg.SessionID),
		limit:     cfg.ActivityLimit,
	}
}

// SessionID returns the session the service records under.
func (s *Service) SessionID() string {
	return s.sessionID
}

// RecordChange stores one operation against the session ledger.
func (s *Service) RecordChange(ctx context.Context, op domain.ChangeOperation, taskID int64, text string) error {
	if s.journal == nil {
		return ErrJournalUnavailable
	}
	if s.sessionID == "" {
		return ErrInvalidSession
	}
	event := domain.ChangeEvent{
		SessionID:  s.sessionID,
		TaskID:     taskID,
		Operation:  op,
		Text:       strings.TrimSpace(text),
		OccurredAt: s.clock().UTC(),
	}
	if err := s.journal.RecordChange(ctx, event); err != nil {
		return fmt.Errorf("record %s change: %w", op, err)
	}
	return nil
}

// ListRecentChanges returns the newest session events, newest first.
func (s *Service) ListRecentChanges(ctx context.Context) ([]domain.ChangeEvent, error) {
	if s.journal == nil {
		return nil, ErrJournalUnavailable
	}
	if s.sessionID == "" {
		return nil, ErrInvalidSession
	}
	events, err := s.journal.ListChangeEvents(ctx, s.sessionID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list change events: %w", err)
	}
	return events, nil
}
