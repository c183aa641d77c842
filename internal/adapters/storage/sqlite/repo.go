package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/todos/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// tsLayout keeps nine fractional digits so stored timestamps sort as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository stores change events for the activity log.
type Repository struct {
	db *sql.DB
}

// OpenInMemory opens a private in-memory database. The ledger is gone once it is closed.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection to ":memory:" gets its own database; pin one.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			task_id INTEGER NOT NULL DEFAULT 0,
			operation TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_session_created_at ON change_events(session_id, created_at DESC, id DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// RecordChange inserts a change-event ledger record.
func (r *Repository) RecordChange(ctx context.Context, event domain.ChangeEvent) error {
	sessionID := strings.TrimSpace(event.SessionID)
	if sessionID == "" {
		return errors.New("change event session id is required")
	}
	if strings.TrimSpace(string(event.Operation)) == "" {
		return errors.New("change event operation is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO change_events(session_id, task_id, operation, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		sessionID,
		event.TaskID,
		string(event.Operation),
		event.Text,
		ts(normalizeEventTS(event.OccurredAt)),
	)
	if err != nil {
		return fmt.Errorf("insert change event: %w", err)
	}
	return nil
}

// ListChangeEvents lists recent session events, newest first.
func (r *Repository) ListChangeEvents(ctx context.Context, sessionID string, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, task_id, operation, text, created_at
		FROM change_events
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, strings.TrimSpace(sessionID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event      domain.ChangeEvent
			opRaw      string
			createdRaw string
		)
		if err := rows.Scan(&event.ID, &event.SessionID, &event.TaskID, &opRaw, &event.Text, &createdRaw); err != nil {
			return nil, err
		}
		event.Operation = domain.ChangeOperation(opRaw)
		event.OccurredAt = parseTS(createdRaw)
		out = append(out, event)
	}
	return out, rows.Err()
}

// normalizeEventTS defaults zero timestamps to now.
func normalizeEventTS(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
