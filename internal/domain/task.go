package domain

import (
	"strings"
	"time"
)

// Task is one user-entered item on the board.
type Task struct {
	ID        int64
	Text      string
	Completed bool
	CreatedAt time.Time
}

// NewTask validates text and builds an open task.
func NewTask(id int64, text string, now time.Time) (Task, error) {
	text = strings.TrimSpace(text)
	if id <= 0 {
		return Task{}, ErrInvalidID
	}
	if text == "" {
		return Task{}, ErrInvalidText
	}
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: now.UTC(),
	}, nil
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}
