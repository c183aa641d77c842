package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/todos/internal/config"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("TODOS_DEV_MODE", "false")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// scriptedProgram represents program data used to exercise model flows inside run() tests.
type scriptedProgram struct {
	model tea.Model
	runFn func(tea.Model) (tea.Model, error)
}

// Run runs scripted model interactions and returns the final state.
func (p scriptedProgram) Run() (tea.Model, error) {
	if p.runFn == nil {
		return p.model, nil
	}
	return p.runFn(p.model)
}

// applyModelMsg applies one message and any resulting command chain.
func applyModelMsg(t *testing.T, model tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	updated, cmd := model.Update(msg)
	return applyModelCmd(t, updated, cmd)
}

// applyModelCmd executes one command chain to completion (bounded for safety).
func applyModelCmd(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	out := model
	currentCmd := cmd
	for i := 0; i < 8 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		out = updated
		currentCmd = nextCmd
	}
	return out
}

// typeModelText sends runes without running commands so cursor blink timers never block.
func typeModelText(model tea.Model, text string) tea.Model {
	for _, r := range text {
		msg := tea.KeyPressMsg{Code: r, Text: string(r)}
		if r == ' ' {
			msg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
		}
		model, _ = model.Update(msg)
	}
	return model
}

// renderedView returns the plain text of the current view.
func renderedView(model tea.Model) string {
	return ansi.Strip(fmt.Sprint(model.View().Content))
}

// isolateUserDirs points config and data resolution at temp dirs.
func isolateUserDirs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("TODOS_CONFIG", "")
	t.Setenv("TODOS_APP_NAME", "")
	return root
}

// withProgramFactory swaps the program factory for one test.
func withProgramFactory(t *testing.T, factory func(context.Context, tea.Model) program) {
	t.Helper()
	orig := programFactory
	t.Cleanup(func() { programFactory = orig })
	programFactory = factory
}

// TestRunPathsCommand verifies resolved paths output.
func TestRunPathsCommand(t *testing.T) {
	root := isolateUserDirs(t)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"paths", "--app", "demo"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"app: demo",
		"dev_mode: false",
		"config: " + filepath.Join(root, "config", "demo", "config.toml"),
		"data_dir: " + filepath.Join(root, "data", "demo"),
		"log_dir: " + filepath.Join(root, "data", "demo", "log"),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in paths output, got %q", want, got)
		}
	}
}

// TestRunPathsDevModeFromEnv verifies dev mode path suffixing.
func TestRunPathsDevModeFromEnv(t *testing.T) {
	isolateUserDirs(t)
	t.Setenv("TODOS_DEV_MODE", "true")
	t.Setenv("TODOS_APP_NAME", "lists")
	var out bytes.Buffer
	if err := run(context.Background(), []string{"paths"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	if !strings.Contains(out.String(), "app: lists") || !strings.Contains(out.String(), "lists-dev") {
		t.Fatalf("expected dev app paths, got %q", out.String())
	}
}

// TestRunPathsInitWritesDefaultConfig verifies config bootstrapping.
func TestRunPathsInitWritesDefaultConfig(t *testing.T) {
	isolateUserDirs(t)
	configPath := filepath.Join(t.TempDir(), "todos.toml")
	var out bytes.Buffer
	if err := run(context.Background(), []string{"paths", "--init", "--config", configPath}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run(paths --init) error = %v", err)
	}
	if !strings.Contains(out.String(), "wrote default config") {
		t.Fatalf("expected write confirmation, got %q", out.String())
	}
	cfg, err := config.Load(configPath, config.Default("/unused"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.Placeholder != "What needs to be done?" {
		t.Fatalf("unexpected written config %#v", cfg.UI)
	}

	out.Reset()
	if err := run(context.Background(), []string{"paths", "--init", "--config", configPath}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run(paths --init) second error = %v", err)
	}
	if !strings.Contains(out.String(), "config already exists") {
		t.Fatalf("expected existing config notice, got %q", out.String())
	}
}

// TestRunRejectsUnknownCommand verifies argument validation.
func TestRunRejectsUnknownCommand(t *testing.T) {
	isolateUserDirs(t)
	withProgramFactory(t, func(context.Context, tea.Model) program {
		t.Fatal("program should not start for invalid args")
		return nil
	})
	if err := run(context.Background(), []string{"bogus"}, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

// TestRunTUIProgramError verifies program errors are wrapped.
func TestRunTUIProgramError(t *testing.T) {
	isolateUserDirs(t)
	withProgramFactory(t, func(context.Context, tea.Model) program {
		return fakeProgram{runErr: errors.New("boom")}
	})
	err := run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "run tui program") {
		t.Fatalf("expected wrapped program error, got %v", err)
	}
}

// TestRunTUIInvalidFlagOverride verifies flag overrides are validated.
func TestRunTUIInvalidFlagOverride(t *testing.T) {
	isolateUserDirs(t)
	withProgramFactory(t, func(context.Context, tea.Model) program {
		t.Fatal("program should not start with an invalid theme")
		return nil
	})
	err := run(context.Background(), []string{"--theme", "solarized"}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "invalid ui.theme") {
		t.Fatalf("expected theme validation error, got %v", err)
	}
}

// TestRunTUIScriptedSession drives the board through the real wiring.
func TestRunTUIScriptedSession(t *testing.T) {
	isolateUserDirs(t)
	var final string
	withProgramFactory(t, func(_ context.Context, m tea.Model) program {
		return scriptedProgram{
			model: m,
			runFn: func(model tea.Model) (tea.Model, error) {
				model = applyModelMsg(t, model, tea.WindowSizeMsg{Width: 100, Height: 40})
				if view := renderedView(model); !strings.Contains(view, "No active tasks") || !strings.Contains(view, "☀ light") {
					return model, fmt.Errorf("unexpected start view %q", view)
				}
				model = typeModelText(model, "Buy milk")
				model = applyModelMsg(t, model, tea.KeyPressMsg{Code: tea.KeyEnter})
				model = typeModelText(model, "Walk dog")
				model = applyModelMsg(t, model, tea.KeyPressMsg{Code: tea.KeyEnter})
				model = applyModelMsg(t, model, tea.KeyPressMsg{Code: tea.KeyEscape})
				model = applyModelMsg(t, model, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
				model = applyModelMsg(t, model, tea.KeyPressMsg{Code: 'g', Text: "g"})
				final = renderedView(model)
				return model, nil
			},
		}
	})

	err := run(context.Background(), []string{"--theme", "dark", "--filter", "active"}, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"Activity Log", "add task", "toggle task", "Buy milk"} {
		if !strings.Contains(final, want) {
			t.Fatalf("expected %q in final view, got %q", want, final)
		}
	}
}

// TestRunTUIUsesConfigFromEnv verifies TODOS_CONFIG and config-driven options.
func TestRunTUIUsesConfigFromEnv(t *testing.T) {
	isolateUserDirs(t)
	logDir := filepath.Join(t.TempDir(), "logs")
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf(`
[logging]
level = "debug"

[logging.file]
enabled = true
dir = %q

[ui]
placeholder = "Next up"

[journal]
enabled = false
`, logDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("TODOS_CONFIG", configPath)

	var view string
	withProgramFactory(t, func(_ context.Context, m tea.Model) program {
		return scriptedProgram{
			model: m,
			runFn: func(model tea.Model) (tea.Model, error) {
				model = applyModelMsg(t, model, tea.WindowSizeMsg{Width: 100, Height: 40})
				model = applyModelMsg(t, model, tea.KeyPressMsg{Code: tea.KeyEscape})
				model = applyModelMsg(t, model, tea.KeyPressMsg{Code: 'g', Text: "g"})
				view = renderedView(model)
				return model, nil
			},
		}
	})

	var stderr bytes.Buffer
	if err := run(context.Background(), nil, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(view, "(activity log disabled)") {
		t.Fatalf("expected disabled activity log, got %q", view)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected console logging muted during tui, got %q", stderr.String())
	}
	logged, err := os.ReadFile(filepath.Join(logDir, "todos.log"))
	if err != nil {
		t.Fatalf("ReadFile(log) error = %v", err)
	}
	if !strings.Contains(string(logged), "starting tui program loop") || !strings.Contains(string(logged), "level=debug") {
		t.Fatalf("expected logfmt runtime events, got %q", string(logged))
	}
}

// TestRuntimeLoggerSinks verifies console muting and file sink behavior.
func TestRuntimeLoggerSinks(t *testing.T) {
	var console bytes.Buffer
	logger, err := newRuntimeLogger(&console, "todos", config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible", "k", "v")
	if strings.Contains(console.String(), "hidden") || !strings.Contains(console.String(), "visible") {
		t.Fatalf("unexpected console output %q", console.String())
	}
	logger.SetConsoleEnabled(false)
	logger.Warn("muted")
	if strings.Contains(console.String(), "muted") {
		t.Fatalf("expected muted console, got %q", console.String())
	}
	if logger.FileLogPath() != "" || logger.Close() != nil {
		t.Fatal("expected no file sink")
	}

	dir := filepath.Join(t.TempDir(), "nested")
	logger, err = newRuntimeLogger(&console, "my app", config.LoggingConfig{
		Level: "warn",
		File:  config.LoggingFileConfig{Enabled: true, Dir: dir, MaxSizeMB: 1, MaxBackups: 1},
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger(file) error = %v", err)
	}
	if want := filepath.Join(dir, "my-app.log"); logger.FileLogPath() != want {
		t.Fatalf("unexpected log path %q want %q", logger.FileLogPath(), want)
	}
	logger.Info("skipped")
	logger.Error("kept", "err", "x")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	content, err := os.ReadFile(logger.FileLogPath())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(content), "skipped") || !strings.Contains(string(content), "msg=kept") {
		t.Fatalf("unexpected file log content %q", string(content))
	}

	if _, err := newRuntimeLogger(nil, "todos", config.LoggingConfig{Level: "loud"}); err == nil {
		t.Fatal("expected invalid level error")
	}
	if _, err := newRuntimeLogger(nil, "todos", config.LoggingConfig{Level: "info", File: config.LoggingFileConfig{Enabled: true}}); err == nil {
		t.Fatal("expected missing dir error")
	}
}

// TestSanitizeLogFileStem verifies file-name normalization.
func TestSanitizeLogFileStem(t *testing.T) {
	cases := map[string]string{
		"":          "todos",
		"  ":        "todos",
		"a/b":       "a-b",
		"my app":    "my-app",
		"/":         "todos",
		"todos-dev": "todos-dev",
	}
	for in, want := range cases {
		if got := sanitizeLogFileStem(in); got != want {
			t.Fatalf("sanitizeLogFileStem(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestParseBoolEnv verifies env bool parsing.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("TODOS_TEST_BOOL", "yes")
	if _, ok := parseBoolEnv("TODOS_TEST_BOOL"); ok {
		t.Fatal("expected invalid bool to be ignored")
	}
	t.Setenv("TODOS_TEST_BOOL", "1")
	if v, ok := parseBoolEnv("TODOS_TEST_BOOL"); !ok || !v {
		t.Fatal("expected true from 1")
	}
	t.Setenv("TODOS_TEST_BOOL", "")
	if _, ok := parseBoolEnv("TODOS_TEST_BOOL"); ok {
		t.Fatal("expected empty env to be unset")
	}
}

// TestRunPaletteCommand verifies both themes are listed per variable.
func TestRunPaletteCommand(t *testing.T) {
	isolateUserDirs(t)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"palette"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run(palette) error = %v", err)
	}
	got := ansi.Strip(out.String())
	for _, want := range []string{"bg-color", "text-color", "container-bg", "border-color", "#f7fafc", "#2d3748", "#4a5568"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in palette output, got %q", want, got)
		}
	}
}
