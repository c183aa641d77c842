package tui

import "strings"

// KeyConfig holds the configurable key overrides.
type KeyConfig struct {
	ToggleTheme    string
	ClearCompleted string
	CycleFilter    string
	ActivityLog    string
	Copy           string
}

// RuntimeConfig holds the settings the command layer hands to the model.
type RuntimeConfig struct {
	Placeholder string
	Keys        KeyConfig
}

// Option configures a Model.
type Option func(*Model)

// WithRuntimeConfig applies placeholder text and key overrides.
func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(m *Model) {
		if placeholder := strings.TrimSpace(cfg.Placeholder); placeholder != "" {
			m.input.Placeholder = placeholder
		}
		m.keys.applyConfig(cfg.Keys)
	}
}

// WithActivityService enables change recording and the activity log overlay.
func WithActivityService(svc Service) Option {
	return func(m *Model) {
		m.svc = svc
	}
}

// WithClipboard replaces the clipboard writer used by the copy key.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}
