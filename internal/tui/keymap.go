package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit           key.Binding
	toggleHelp     key.Binding
	focusInput     key.Binding
	focusList      key.Binding
	submit         key.Binding
	moveUp         key.Binding
	moveDown       key.Binding
	toggleTask     key.Binding
	deleteTask     key.Binding
	filterAll      key.Binding
	filterActive   key.Binding
	filterDone     key.Binding
	cycleFilter    key.Binding
	clearCompleted key.Binding
	toggleTheme    key.Binding
	themeAnywhere  key.Binding
	copyTask       key.Binding
	activityLog    key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		focusInput:     key.NewBinding(key.WithKeys("i", "a", "tab"), key.WithHelp("i/tab", "new task")),
		focusList:      key.NewBinding(key.WithKeys("tab", "esc"), key.WithHelp("tab/esc", "back to list")),
		submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		moveUp:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		toggleTask:     key.NewBinding(key.WithKeys(" ", "space", "x", "enter"), key.WithHelp("space/x", "toggle done")),
		deleteTask:     key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "delete")),
		filterAll:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		filterActive:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		filterDone:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		cycleFilter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		clearCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		toggleTheme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		themeAnywhere:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle theme")),
		copyTask:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		activityLog:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
	}
}

// applyConfig applies configured key overrides.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.toggleTheme, cfg.ToggleTheme, "t", "toggle theme")
	configureBinding(&k.clearCompleted, cfg.ClearCompleted, "c", "clear completed")
	configureBinding(&k.cycleFilter, cfg.CycleFilter, "f", "next filter")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
	configureBinding(&k.copyTask, cfg.Copy, "y", "copy text")
}

// configureBinding replaces the keys and help text of one binding.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys converts one configured key into matcher keys and help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := raw
	if strings.TrimSpace(value) == "" && value != " " {
		value = fallback
	}
	if value == " " || strings.EqualFold(strings.TrimSpace(value), "space") {
		return []string{" ", "space"}, "space"
	}
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.focusInput, k.toggleTask, k.deleteTask, k.cycleFilter, k.clearCompleted, k.toggleTheme, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.focusInput, k.submit, k.focusList, k.moveUp, k.moveDown},
		{k.toggleTask, k.deleteTask, k.clearCompleted, k.copyTask},
		{k.filterAll, k.filterActive, k.filterDone, k.cycleFilter},
		{k.toggleTheme, k.themeAnywhere, k.activityLog, k.toggleHelp, k.quit},
	}
}

// inputHelp is the short help shown while the text input has focus.
type inputHelp struct {
	keys keyMap
}

// ShortHelp handles short help.
func (h inputHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.submit, h.keys.focusList, h.keys.themeAnywhere}
}

// FullHelp handles full help.
func (h inputHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
