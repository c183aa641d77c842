package app

import (
	"slices"
	"strings"
	"time"

	"github.com/evanschultz/todos/internal/domain"
)

// IDGenerator returns unique identifiers for new tasks.
type IDGenerator func() int64

// Clock returns the current time.
type Clock func() time.Time

// BoardOption configures a Board at construction.
type BoardOption func(*Board)

// WithIDGenerator overrides the task ID source.
func WithIDGenerator(gen IDGenerator) BoardOption {
	return func(b *Board) {
		if gen != nil {
			b.idGen = gen
		}
	}
}

// WithClock overrides the clock used for task timestamps.
func WithClock(clock Clock) BoardOption {
	return func(b *Board) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithFilter sets the starting filter.
func WithFilter(filter domain.Filter) BoardOption {
	return func(b *Board) {
		if slices.Contains(domain.Filters, filter) {
			b.filter = filter
		}
	}
}

// WithDarkTheme sets the starting theme.
func WithDarkTheme(isDark bool) BoardOption {
	return func(b *Board) {
		b.isDark = isDark
	}
}

// Board owns the task list, the pending input text, the active filter and the theme flag.
// Visible tasks and the remaining count are derived on every read.
type Board struct {
	tasks  []domain.Task
	draft  string
	filter domain.Filter
	isDark bool

	style *StyleContext
	idGen IDGenerator
	clock Clock
}

// NewBoard constructs an empty board and applies the starting palette to style.
func NewBoard(style *StyleContext, opts ...BoardOption) *Board {
	if style == nil {
		style = NewStyleContext()
	}
	b := &Board{
		filter: domain.FilterAll,
		style:  style,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.idGen == nil {
		b.idGen = NewSequence(b.clock)
	}
	b.style.Apply(domain.PaletteFor(b.Theme()))
	return b
}

// AddTask appends a new open task. Blank text is a no-op.
func (b *Board) AddTask(text string) (domain.Task, bool) {
	if strings.TrimSpace(text) == "" {
		return domain.Task{}, false
	}
	task, err := domain.NewTask(b.nextID(), text, b.clock())
	if err != nil {
		return domain.Task{}, false
	}
	b.tasks = append(b.tasks, task)
	b.draft = ""
	return task, true
}

// RemoveTask deletes the task with id. Unknown ids are a no-op.
func (b *Board) RemoveTask(id int64) (domain.Task, bool) {
	idx := b.indexOf(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	removed := b.tasks[idx]
	b.tasks = slices.Delete(slices.Clone(b.tasks), idx, idx+1)
	return removed, true
}

// ToggleTask flips completion for the task with id. Unknown ids are a no-op.
func (b *Board) ToggleTask(id int64) (domain.Task, bool) {
	idx := b.indexOf(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	b.tasks[idx].Toggle()
	return b.tasks[idx], true
}

// ClearCompleted removes every completed task and returns them.
func (b *Board) ClearCompleted() []domain.Task {
	if !b.HasCompleted() {
		return nil
	}
	kept := make([]domain.Task, 0, len(b.tasks))
	removed := make([]domain.Task, 0)
	for _, task := range b.tasks {
		if task.Completed {
			removed = append(removed, task)
			continue
		}
		kept = append(kept, task)
	}
	b.tasks = kept
	return removed
}

// SetFilter replaces the active filter. Unknown values fall back to all.
func (b *Board) SetFilter(filter domain.Filter) {
	if !slices.Contains(domain.Filters, filter) {
		filter = domain.FilterAll
	}
	b.filter = filter
}

// ToggleTheme flips the theme and writes the matching palette to the style context.
func (b *Board) ToggleTheme() domain.ThemeName {
	b.isDark = !b.isDark
	theme := b.Theme()
	b.style.Apply(domain.PaletteFor(theme))
	return theme
}

// SetDraft stores the pending input text.
func (b *Board) SetDraft(text string) {
	b.draft = text
}

// Draft returns the pending input text.
func (b *Board) Draft() string {
	return b.draft
}

// VisibleTasks returns tasks matching the active filter in insertion order.
func (b *Board) VisibleTasks() []domain.Task {
	out := make([]domain.Task, 0, len(b.tasks))
	for _, task := range b.tasks {
		if b.filter.Matches(task) {
			out = append(out, task)
		}
	}
	return out
}

// RemainingCount counts open tasks across the whole list.
func (b *Board) RemainingCount() int {
	count := 0
	for _, task := range b.tasks {
		if !task.Completed {
			count++
		}
	}
	return count
}

// HasCompleted reports whether any task is completed.
func (b *Board) HasCompleted() bool {
	return slices.ContainsFunc(b.tasks, func(task domain.Task) bool {
		return task.Completed
	})
}

// Task returns the task with id.
func (b *Board) Task(id int64) (domain.Task, bool) {
	idx := b.indexOf(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return b.tasks[idx], true
}

// Tasks returns a copy of the full list.
func (b *Board) Tasks() []domain.Task {
	return slices.Clone(b.tasks)
}

// Len returns the number of tasks regardless of filter.
func (b *Board) Len() int {
	return len(b.tasks)
}

// Filter returns the active filter.
func (b *Board) Filter() domain.Filter {
	return b.filter
}

// IsDark reports whether the dark theme is on.
func (b *Board) IsDark() bool {
	return b.isDark
}

// Theme returns the active theme name.
func (b *Board) Theme() domain.ThemeName {
	return domain.ThemeFor(b.isDark)
}

// Style returns the style context the board writes its palette to.
func (b *Board) Style() *StyleContext {
	return b.style
}

// nextID draws from the generator and falls back to one past the largest ID
// when the draw is not positive or already in use.
func (b *Board) nextID() int64 {
	id := b.idGen()
	if id > 0 && b.indexOf(id) < 0 {
		return id
	}
	var highest int64
	for _, task := range b.tasks {
		highest = max(highest, task.ID)
	}
	return max(highest, id) + 1
}

// indexOf returns the slice index of id, or -1.
func (b *Board) indexOf(id int64) int {
	return slices.IndexFunc(b.tasks, func(task domain.Task) bool {
		return task.ID == id
	})
}
