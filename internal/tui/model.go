package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/todos/internal/app"
	"github.com/evanschultz/todos/internal/domain"
)

// Service records board changes and lists them for the activity log.
type Service interface {
	RecordChange(context.Context, domain.ChangeOperation, int64, string) error
	ListRecentChanges(context.Context) ([]domain.ChangeEvent, error)
}

// focusArea identifies which part of the screen receives keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// overlayMode identifies the modal drawn over the board, if any.
type overlayMode int

const (
	modeNone overlayMode = iota
	modeHelp
	modeActivityLog
)

const (
	activityLogViewWindow = 12
	inputCharLimit        = 256
)

// activityEntry is one rendered activity log row.
type activityEntry struct {
	At      time.Time
	Summary string
	Target  string
}

// Model is the bubbletea model for the task board.
type Model struct {
	board *app.Board
	svc   Service

	ready  bool
	width  int
	height int

	status string

	help  help.Model
	keys  keyMap
	input textinput.Model

	focus  focusArea
	cursor int
	mode   overlayMode

	activityLog []activityEntry
	markdown    *markdownRenderer
	copyText    func(string) error
}

// changeRecordedMsg reports the outcome of one journal write.
type changeRecordedMsg struct {
	op  domain.ChangeOperation
	err error
}

// activityLogLoadedMsg carries journal entries for the activity log overlay.
type activityLogLoadedMsg struct {
	entries []activityEntry
	err     error
}

// clipboardMsg reports the outcome of one clipboard write.
type clipboardMsg struct {
	text string
	err  error
}

// NewModel constructs a model over board. A nil board starts an empty light board.
func NewModel(board *app.Board, opts ...Option) Model {
	if board == nil {
		board = app.NewBoard(nil)
	}
	h := help.New()
	h.ShowAll = false

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "What needs to be done?"
	input.CharLimit = inputCharLimit
	input.SetValue(board.Draft())
	input.Focus()

	m := Model{
		board:       board,
		help:        h,
		keys:        newKeyMap(),
		input:       input,
		focus:       focusInput,
		activityLog: []activityEntry{},
		markdown:    &markdownRenderer{},
		copyText:    clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case changeRecordedMsg:
		if msg.err != nil {
			m.status = "activity log unavailable: " + msg.err.Error()
			return m, nil
		}
		if m.mode == modeActivityLog {
			return m, m.loadActivityLog
		}
		return m, nil

	case activityLogLoadedMsg:
		if msg.err != nil {
			if m.mode == modeActivityLog {
				m.status = "activity log unavailable: " + msg.err.Error()
			}
			return m, nil
		}
		m.activityLog = append([]activityEntry(nil), msg.entries...)
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %q", truncate(msg.text, 32))
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != modeNone {
			return m.handleOverlayKey(msg)
		}
		if key.Matches(msg, m.keys.themeAnywhere) {
			return m.toggleTheme()
		}
		if m.focus == focusInput {
			return m.handleInputKey(msg)
		}
		return m.handleListKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleInputKey handles keys while the text input has focus.
func (m Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		return m.addTask()
	case key.Matches(msg, m.keys.focusList):
		m.setFocus(focusList)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.board.SetDraft(m.input.Value())
	return m, cmd
}

// handleListKey handles keys while the task list has focus.
func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.mode = modeHelp
		return m, nil
	case key.Matches(msg, m.keys.activityLog):
		return m, m.openActivityLog()
	case key.Matches(msg, m.keys.toggleTheme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.clearCompleted):
		return m.clearCompleted()
	case key.Matches(msg, m.keys.cycleFilter):
		return m.setFilter(m.board.Filter().Next())
	case key.Matches(msg, m.keys.copyTask):
		return m.copySelected()
	case key.Matches(msg, m.keys.focusInput):
		cmd := m.setFocus(focusInput)
		return m, cmd
	case key.Matches(msg, m.keys.moveUp):
		m.cursor = clamp(m.cursor-1, 0, len(m.board.VisibleTasks())-1)
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.cursor = clamp(m.cursor+1, 0, len(m.board.VisibleTasks())-1)
		return m, nil
	case key.Matches(msg, m.keys.toggleTask):
		return m.toggleSelected()
	case key.Matches(msg, m.keys.deleteTask):
		return m.removeSelected()
	case key.Matches(msg, m.keys.filterAll):
		return m.setFilter(domain.FilterAll)
	case key.Matches(msg, m.keys.filterActive):
		return m.setFilter(domain.FilterActive)
	case key.Matches(msg, m.keys.filterDone):
		return m.setFilter(domain.FilterCompleted)
	}
	return m, nil
}

// handleOverlayKey closes the open overlay on its own key, esc or q.
func (m Model) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc",
		key.Matches(msg, m.keys.quit),
		m.mode == modeHelp && key.Matches(msg, m.keys.toggleHelp),
		m.mode == modeActivityLog && key.Matches(msg, m.keys.activityLog):
		m.mode = modeNone
		m.status = ""
	}
	return m, nil
}

// setFocus moves keyboard focus between the input and the list.
func (m *Model) setFocus(area focusArea) tea.Cmd {
	m.focus = area
	if area == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	m.cursor = clamp(m.cursor, 0, len(m.board.VisibleTasks())-1)
	return nil
}

// addTask submits the current draft.
func (m Model) addTask() (tea.Model, tea.Cmd) {
	task, ok := m.board.AddTask(m.input.Value())
	if !ok {
		m.status = "nothing to add"
		return m, nil
	}
	m.input.SetValue("")
	m.status = fmt.Sprintf("added %q", truncate(task.Text, 32))
	return m, m.recordChange(domain.ChangeOperationAdd, task.ID, task.Text)
}

// selectedTask returns the visible task under the cursor.
func (m Model) selectedTask() (domain.Task, bool) {
	visible := m.board.VisibleTasks()
	if len(visible) == 0 {
		return domain.Task{}, false
	}
	return visible[clamp(m.cursor, 0, len(visible)-1)], true
}

// toggleSelected flips completion of the task under the cursor.
func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	selected, ok := m.selectedTask()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	task, ok := m.board.ToggleTask(selected.ID)
	if !ok {
		return m, nil
	}
	if task.Completed {
		m.status = fmt.Sprintf("completed %q", truncate(task.Text, 32))
	} else {
		m.status = fmt.Sprintf("reopened %q", truncate(task.Text, 32))
	}
	m.clampCursor()
	return m, m.recordChange(domain.ChangeOperationToggle, task.ID, task.Text)
}

// removeSelected deletes the task under the cursor.
func (m Model) removeSelected() (tea.Model, tea.Cmd) {
	selected, ok := m.selectedTask()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	task, ok := m.board.RemoveTask(selected.ID)
	if !ok {
		return m, nil
	}
	m.status = fmt.Sprintf("deleted %q", truncate(task.Text, 32))
	m.clampCursor()
	return m, m.recordChange(domain.ChangeOperationRemove, task.ID, task.Text)
}

// clearCompleted removes every completed task.
func (m Model) clearCompleted() (tea.Model, tea.Cmd) {
	removed := m.board.ClearCompleted()
	if len(removed) == 0 {
		m.status = "nothing to clear"
		return m, nil
	}
	m.status = fmt.Sprintf("cleared %d completed", len(removed))
	m.clampCursor()
	return m, m.recordChange(domain.ChangeOperationClearCompleted, 0, fmt.Sprintf("%d tasks", len(removed)))
}

// setFilter switches the visible subset.
func (m Model) setFilter(filter domain.Filter) (tea.Model, tea.Cmd) {
	previous := m.board.Filter()
	m.board.SetFilter(filter)
	m.status = "filter: " + strings.ToLower(m.board.Filter().Label())
	m.clampCursor()
	if previous == m.board.Filter() {
		return m, nil
	}
	return m, m.recordChange(domain.ChangeOperationFilter, 0, string(m.board.Filter()))
}

// toggleTheme flips between light and dark.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	theme := m.board.ToggleTheme()
	m.status = "theme: " + string(theme)
	return m, m.recordChange(domain.ChangeOperationTheme, 0, string(theme))
}

// copySelected copies the text of the task under the cursor.
func (m Model) copySelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	write := m.copyText
	text := task.Text
	return m, func() tea.Msg {
		return clipboardMsg{text: text, err: write(text)}
	}
}

// clampCursor keeps the cursor inside the visible list.
func (m *Model) clampCursor() {
	m.cursor = clamp(m.cursor, 0, len(m.board.VisibleTasks())-1)
}

// recordChange journals one change asynchronously. It is a no-op without a service.
func (m Model) recordChange(op domain.ChangeOperation, taskID int64, text string) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc := m.svc
	return func() tea.Msg {
		return changeRecordedMsg{op: op, err: svc.RecordChange(context.Background(), op, taskID, text)}
	}
}

// openActivityLog enters activity-log mode and triggers a journal fetch.
func (m *Model) openActivityLog() tea.Cmd {
	m.mode = modeActivityLog
	if m.svc == nil {
		m.status = "activity log disabled"
		return nil
	}
	m.status = "activity log"
	return m.loadActivityLog
}

// loadActivityLog loads recent journal entries.
func (m Model) loadActivityLog() tea.Msg {
	if m.svc == nil {
		return activityLogLoadedMsg{}
	}
	events, err := m.svc.ListRecentChanges(context.Background())
	if err != nil {
		return activityLogLoadedMsg{err: err}
	}
	return activityLogLoadedMsg{entries: mapChangeEventsToActivityEntries(events)}
}

// mapChangeEventsToActivityEntries converts newest-first events into chronological rows.
func mapChangeEventsToActivityEntries(events []domain.ChangeEvent) []activityEntry {
	entries := make([]activityEntry, 0, len(events))
	for idx := len(events) - 1; idx >= 0; idx-- {
		entries = append(entries, mapChangeEventToActivityEntry(events[idx]))
	}
	return entries
}

// mapChangeEventToActivityEntry derives a compact activity row from one event.
func mapChangeEventToActivityEntry(event domain.ChangeEvent) activityEntry {
	summary := string(event.Operation)
	switch event.Operation {
	case domain.ChangeOperationAdd:
		summary = "add task"
	case domain.ChangeOperationToggle:
		summary = "toggle task"
	case domain.ChangeOperationRemove:
		summary = "delete task"
	case domain.ChangeOperationClearCompleted:
		summary = "clear completed"
	case domain.ChangeOperationFilter:
		summary = "set filter"
	case domain.ChangeOperationTheme:
		summary = "switch theme"
	}
	target := strings.TrimSpace(event.Text)
	if target == "" {
		target = "-"
	}
	return activityEntry{
		At:      event.OccurredAt.UTC(),
		Summary: summary,
		Target:  target,
	}
}

// View renders the board.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	st := newStyles(m.board.Style().Palette(), m.board.Theme())
	width := m.contentWidth()

	sections := []string{
		m.renderHeader(st, width),
		"",
		m.renderInputRow(st, width),
		"",
		m.renderTasks(st, width),
	}
	if m.board.Len() > 0 {
		sections = append(sections, m.renderFooter(st, width))
	}
	body := st.container.Width(width + 4).Render(strings.Join(sections, "\n"))

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, width))
	var helpLine string
	if m.focus == focusInput {
		helpLine = helpBubble.View(inputHelp{keys: m.keys})
	} else {
		helpLine = helpBubble.View(m.keys)
	}
	lines := []string{body}
	if status := strings.TrimSpace(m.status); status != "" {
		lines = append(lines, st.status.Render(truncate(status, width+4)))
	}
	lines = append(lines, helpLine)
	content := strings.Join(lines, "\n")

	if overlay := m.renderOverlay(st, width); overlay != "" {
		content = overlayOnContent(content, overlay, max(m.width, lipgloss.Width(content)), max(m.height, lipgloss.Height(content)))
	}
	if m.width > 0 && m.height > 0 {
		content = st.page.Width(m.width).Height(m.height).Render(fitLines(content, m.height))
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// contentWidth returns the inner width of the board container.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 56
	}
	return clamp(m.width-8, 32, 72)
}

// renderHeader renders the title and theme toggle.
func (m Model) renderHeader(st styles, width int) string {
	title := st.title.Render("todos")
	toggle := "☾ dark"
	if m.board.IsDark() {
		toggle = "☀ light"
	}
	button := st.themeToggle.Render(toggle)
	gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(button))
	return title + strings.Repeat(" ", gap) + button
}

// renderInputRow renders the draft input and the add button.
func (m Model) renderInputRow(st styles, width int) string {
	button := st.addButton.Render("Add")
	in := m.input
	in.SetWidth(max(8, width-lipgloss.Width(button)-lipgloss.Width(in.Prompt)-3))
	return in.View() + "  " + button
}

// renderTasks renders the visible task rows or the empty message.
func (m Model) renderTasks(st styles, width int) string {
	visible := m.board.VisibleTasks()
	if len(visible) == 0 {
		return st.empty.Render(m.board.Filter().EmptyMessage())
	}
	textWidth := max(4, width-10)
	rows := make([]string, 0, len(visible))
	for idx, task := range visible {
		selected := m.focus == focusList && idx == m.cursor
		marker := "  "
		if selected {
			marker = "› "
		}
		check := "[ ]"
		textStyle := st.text
		if task.Completed {
			check = "[x]"
			textStyle = st.textDone
		}
		rowStyle := st.row
		if selected {
			rowStyle = st.rowSelected
		}
		text := truncate(task.Text, textWidth)
		pad := strings.Repeat(" ", max(0, textWidth-lipgloss.Width(text)))
		rows = append(rows, rowStyle.Render(marker+check+" ")+textStyle.Render(text)+rowStyle.Render(pad+" ")+st.deleteMark.Render("✕"))
	}
	return strings.Join(rows, "\n")
}

// renderFooter renders the remaining count, filter buttons and clear action.
func (m Model) renderFooter(st styles, width int) string {
	buttons := make([]string, 0, len(domain.Filters))
	for _, filter := range domain.Filters {
		if filter == m.board.Filter() {
			buttons = append(buttons, st.filterOn.Render(filter.Label()))
			continue
		}
		buttons = append(buttons, st.filter.Render(filter.Label()))
	}
	clearAction := st.clearOff.Render("Clear completed")
	if m.board.HasCompleted() {
		clearAction = st.clear.Render("Clear completed")
	}
	row := lipgloss.JoinHorizontal(
		lipgloss.Center,
		itemsLeftLabel(m.board.RemainingCount()),
		"  ",
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
		"  ",
		clearAction,
	)
	return st.footer.Width(width).Render(row)
}

// itemsLeftLabel formats the remaining count.
func itemsLeftLabel(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

// renderOverlay renders the active modal, if any.
func (m Model) renderOverlay(st styles, width int) string {
	switch m.mode {
	case modeHelp:
		return m.renderHelpOverlay(st, width)
	case modeActivityLog:
		return m.renderActivityLog(st, width)
	default:
		return ""
	}
}

// renderHelpOverlay renders the markdown key reference.
func (m Model) renderHelpOverlay(st styles, width int) string {
	inner := clamp(width, 32, 72)
	body := m.markdown.render(m.helpMarkdown(), inner-2, m.board.Theme())
	hint := lipgloss.NewStyle().Foreground(st.muted).Render("press ? or esc to close")
	return st.overlay.Width(inner + 2).Render(body + "\n" + hint)
}

// helpMarkdown builds the help document from the live key bindings.
func (m Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# todos\n\n")
	b.WriteString("Type a task and press **enter** to add it. ")
	b.WriteString("Press **tab** to move between the input and the list.\n\n")
	b.WriteString("| key | action |\n|---|---|\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			if h.Key == "" {
				continue
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	return b.String()
}

// renderActivityLog renders recent journal entries.
func (m Model) renderActivityLog(st styles, width int) string {
	inner := clamp(width, 32, 72)
	hint := lipgloss.NewStyle().Foreground(st.muted)
	lines := []string{st.overlayHead.Render("Activity Log")}
	switch {
	case m.svc == nil:
		lines = append(lines, hint.Render("(activity log disabled)"))
	case len(m.activityLog) == 0:
		lines = append(lines, hint.Render("(no activity yet)"))
	default:
		rendered := 0
		for idx := len(m.activityLog) - 1; idx >= 0 && rendered < activityLogViewWindow; idx-- {
			entry := m.activityLog[idx]
			line := fmt.Sprintf("%s  %s • %s", entry.At.Local().Format("15:04:05"), entry.Summary, entry.Target)
			lines = append(lines, truncate(line, inner))
			rendered++
		}
	}
	lines = append(lines, hint.Render("esc close"))
	return st.overlay.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base on a canvas of the given size.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
