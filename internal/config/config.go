package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanschultz/todos/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// validLogLevels lists the accepted [logging] level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// reservedKeys lists the fixed list bindings that [keys] overrides may not reuse.
var reservedKeys = []string{
	"q", "ctrl+c", "?",
	"i", "a", "tab", "esc", "enter",
	"k", "up", "j", "down",
	"space", "x", "d", "delete", "backspace",
	"1", "2", "3", "ctrl+t",
}

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
	Journal JournalConfig `toml:"journal"`
	Keys    KeyConfig     `toml:"keys"`
}

type LoggingConfig struct {
	Level string            `toml:"level"`
	File  LoggingFileConfig `toml:"file"`
}

// LoggingFileConfig controls the rotating file sink.
type LoggingFileConfig struct {
	Enabled    bool   `toml:"enabled"`
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

type UIConfig struct {
	Theme       string `toml:"theme"`  // light | dark
	Filter      string `toml:"filter"` // all | active | completed
	Placeholder string `toml:"placeholder"`
}

type JournalConfig struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

type KeyConfig struct {
	ToggleTheme    string `toml:"toggle_theme"`
	ClearCompleted string `toml:"clear_completed"`
	CycleFilter    string `toml:"cycle_filter"`
	ActivityLog    string `toml:"activity_log"`
	Copy           string `toml:"copy"`
}

func Default(logDir string) Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
			File: LoggingFileConfig{
				Enabled:    false,
				Dir:        logDir,
				MaxSizeMB:  5,
				MaxBackups: 3,
			},
		},
		UI: UIConfig{
			Theme:       string(domain.ThemeLight),
			Filter:      string(domain.FilterAll),
			Placeholder: "What needs to be done?",
		},
		Journal: JournalConfig{
			Enabled: true,
			Limit:   50,
		},
		Keys: KeyConfig{
			ToggleTheme:    "t",
			ClearCompleted: "c",
			CycleFilter:    "f",
			ActivityLog:    "g",
			Copy:           "y",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	level := strings.TrimSpace(strings.ToLower(c.Logging.Level))
	if !slices.Contains(validLogLevels, level) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.File.MaxSizeMB < 0 {
		return errors.New("logging.file.max_size_mb must be >= 0")
	}
	if c.Logging.File.MaxBackups < 0 {
		return errors.New("logging.file.max_backups must be >= 0")
	}
	if _, err := domain.ParseTheme(c.UI.Theme); err != nil {
		return fmt.Errorf("invalid ui.theme: %w", err)
	}
	if _, err := domain.ParseFilter(c.UI.Filter); err != nil {
		return fmt.Errorf("invalid ui.filter: %w", err)
	}
	if c.Journal.Limit < 0 {
		return errors.New("journal.limit must be >= 0")
	}

	seenKeys := map[string]string{}
	for name, raw := range map[string]string{
		"toggle_theme":    c.Keys.ToggleTheme,
		"clear_completed": c.Keys.ClearCompleted,
		"cycle_filter":    c.Keys.CycleFilter,
		"activity_log":    c.Keys.ActivityLog,
		"copy":            c.Keys.Copy,
	} {
		k := normalizeKey(raw)
		if k == "" {
			continue
		}
		if slices.Contains(reservedKeys, k) {
			return fmt.Errorf("keys.%s uses reserved key %q", name, k)
		}
		if other, ok := seenKeys[k]; ok {
			first, second := other, name
			if second < first {
				first, second = second, first
			}
			return fmt.Errorf("keys.%s and keys.%s both use %q", first, second, k)
		}
		seenKeys[k] = name
	}

	return nil
}

// normalizeKey maps an override to the key string it matches at runtime.
// Single characters keep their case; longer names are lowercased.
func normalizeKey(raw string) string {
	if raw == " " {
		return "space"
	}
	k := strings.TrimSpace(raw)
	if len([]rune(k)) > 1 {
		k = strings.ToLower(k)
	}
	return k
}

// Theme returns the parsed start theme.
func (c Config) Theme() domain.ThemeName {
	theme, err := domain.ParseTheme(c.UI.Theme)
	if err != nil {
		return domain.ThemeLight
	}
	return theme
}

// Filter returns the parsed start filter.
func (c Config) Filter() domain.Filter {
	filter, err := domain.ParseFilter(c.UI.Filter)
	if err != nil {
		return domain.FilterAll
	}
	return filter
}

// WriteDefault writes cfg to path as TOML unless a file already exists there.
// It reports whether a file was written.
func WriteDefault(path string, cfg Config) (bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return false, errors.New("config path is required")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
