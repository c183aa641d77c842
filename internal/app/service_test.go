package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evanschultz/todos/internal/domain"
)

type fakeJournal struct {
	events []domain.ChangeEvent
	err    error
}

func (f *fakeJournal) RecordChange(_ context.Context, event domain.ChangeEvent) error {
	if f.err != nil {
		return f.err
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return nil
}

func (f *fakeJournal) ListChangeEvents(_ context.Context, sessionID string, limit int) ([]domain.ChangeEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.ChangeEvent, 0)
	for idx := len(f.events) - 1; idx >= 0 && len(out) < limit; idx-- {
		if f.events[idx].SessionID == sessionID {
			out = append(out, f.events[idx])
		}
	}
	return out, nil
}

func TestServiceRecordChange(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	journal := &fakeJournal{}
	svc := NewService(journal, func() time.Time { return now }, ServiceConfig{SessionID: " s1 "})
	if svc.SessionID() != "s1" {
		t.Fatalf("unexpected session id %q", svc.SessionID())
	}

	if err := svc.RecordChange(context.Background(), domain.ChangeOperationAdd, 42, "  Buy milk "); err != nil {
		t.Fatalf("RecordChange() error = %v", err)
	}
	if len(journal.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(journal.events))
	}
	got := journal.events[0]
	if got.SessionID != "s1" || got.TaskID != 42 || got.Operation != domain.ChangeOperationAdd {
		t.Fatalf("unexpected event %#v", got)
	}
	if got.Text != "Buy milk" {
		t.Fatalf("unexpected text %q", got.Text)
	}
	if !got.OccurredAt.Equal(now) {
		t.Fatalf("unexpected occurred_at %v", got.OccurredAt)
	}
}

func TestServiceListRecentChangesHonorsLimit(t *testing.T) {
	journal := &fakeJournal{}
	svc := NewService(journal, nil, ServiceConfig{SessionID: "s1", ActivityLimit: 2})
	ctx := context.Background()
	for _, op := range []domain.ChangeOperation{domain.ChangeOperationAdd, domain.ChangeOperationToggle, domain.ChangeOperationRemove} {
		if err := svc.RecordChange(ctx, op, 1, "x"); err != nil {
			t.Fatalf("RecordChange() error = %v", err)
		}
	}
	events, err := svc.ListRecentChanges(ctx)
	if err != nil {
		t.Fatalf("ListRecentChanges() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Operation != domain.ChangeOperationRemove || events[1].Operation != domain.ChangeOperationToggle {
		t.Fatalf("expected newest-first events, got %#v", events)
	}
}

func TestServiceWithoutJournal(t *testing.T) {
	svc := NewService(nil, nil, ServiceConfig{SessionID: "s1"})
	if err := svc.RecordChange(context.Background(), domain.ChangeOperationAdd, 1, "x"); !errors.Is(err, ErrJournalUnavailable) {
		t.Fatalf("expected ErrJournalUnavailable, got %v", err)
	}
	if _, err := svc.ListRecentChanges(context.Background()); !errors.Is(err, ErrJournalUnavailable) {
		t.Fatalf("expected ErrJournalUnavailable, got %v", err)
	}
}

func TestServiceRequiresSession(t *testing.T) {
	svc := NewService(&fakeJournal{}, nil, ServiceConfig{})
	if err := svc.RecordChange(context.Background(), domain.ChangeOperationAdd, 1, "x"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestServiceWrapsJournalErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeJournal{err: boom}, nil, ServiceConfig{SessionID: "s1"})
	if err := svc.RecordChange(context.Background(), domain.ChangeOperationTheme, 0, "dark"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if _, err := svc.ListRecentChanges(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}
