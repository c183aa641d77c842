package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/todos/internal/adapters/storage/sqlite"
	"github.com/evanschultz/todos/internal/app"
	"github.com/evanschultz/todos/internal/config"
	"github.com/evanschultz/todos/internal/domain"
	"github.com/evanschultz/todos/internal/platform"
	"github.com/evanschultz/todos/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(ctx context.Context, m tea.Model) program {
	return tea.NewProgram(m, tea.WithContext(ctx))
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds flag values shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
	theme      string
	filter     string
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetIn(os.Stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// newRootCmd builds the todos command tree.
func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: "todos", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("TODOS_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TODOS_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:   "todos",
		Short: "A small terminal todo list",
		Long: `todos keeps a short list of tasks for the current terminal session.

Add tasks, tick them off, filter by status and switch between light and dark themes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")
	root.Flags().StringVar(&opts.theme, "theme", "", "start theme (light|dark)")
	root.Flags().StringVar(&opts.filter, "filter", "", "start filter (all|active|completed)")

	root.AddCommand(newPathsCmd(opts), newPaletteCmd())
	return root
}

// newPathsCmd builds the paths subcommand.
func newPathsCmd(opts *rootOptions) *cobra.Command {
	var initConfig bool
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show resolved config and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			configPath := resolveConfigPath(opts, paths)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			if !initConfig {
				return nil
			}
			wrote, err := config.WriteDefault(configPath, config.Default(paths.LogDir))
			if err != nil {
				return fmt.Errorf("write default config: %w", err)
			}
			if wrote {
				_, _ = fmt.Fprintf(out, "wrote default config to %s\n", configPath)
			} else {
				_, _ = fmt.Fprintf(out, "config already exists at %s\n", configPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&initConfig, "init", false, "write a default config file if none exists")
	return cmd
}

// resolvePaths resolves platform paths for the selected app name and mode.
func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// resolveConfigPath applies flag, then env, then platform default.
func resolveConfigPath(opts *rootOptions, paths platform.Paths) string {
	if path := strings.TrimSpace(opts.configPath); path != "" {
		return path
	}
	if envPath := strings.TrimSpace(os.Getenv("TODOS_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// loadConfig loads config and applies start-up flag overrides.
func loadConfig(opts *rootOptions, paths platform.Paths) (config.Config, string, error) {
	configPath := resolveConfigPath(opts, paths)
	cfg, err := config.Load(configPath, config.Default(paths.LogDir))
	if err != nil {
		return config.Config{}, configPath, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if theme := strings.TrimSpace(opts.theme); theme != "" {
		cfg.UI.Theme = theme
	}
	if filter := strings.TrimSpace(opts.filter); filter != "" {
		cfg.UI.Filter = filter
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, configPath, err
	}
	return cfg, configPath, nil
}

// runTUI wires the board, journal and logger and runs the program loop.
func runTUI(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := resolvePaths(opts)
	if err != nil {
		return err
	}
	cfg, configPath, err := loadConfig(opts, paths)
	if err != nil {
		return err
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// The console sink would draw over the alt screen.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "log_dir", paths.LogDir)
	logger.Info("configuration loaded", "config_path", configPath, "theme", cfg.UI.Theme, "filter", cfg.UI.Filter, "log_level", cfg.Logging.Level)
	if logPath := logger.FileLogPath(); logPath != "" {
		logger.Info("file logging enabled", "path", logPath)
	}

	board := app.NewBoard(
		app.NewStyleContext(),
		app.WithFilter(cfg.Filter()),
		app.WithDarkTheme(cfg.Theme() == domain.ThemeDark),
	)
	modelOpts := []tui.Option{tui.WithRuntimeConfig(toTUIRuntimeConfig(cfg))}

	if cfg.Journal.Enabled {
		repo, err := sqlite.OpenInMemory()
		if err != nil {
			logger.Error("sqlite open failed", "err", err)
			return fmt.Errorf("open activity journal: %w", err)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				logger.Warn("sqlite close failed", "err", closeErr)
			}
		}()
		sessionID := uuid.NewString()
		svc := app.NewService(repo, time.Now, app.ServiceConfig{
			SessionID:     sessionID,
			ActivityLimit: cfg.Journal.Limit,
		})
		logger.Info("activity journal ready", "session_id", sessionID, "limit", cfg.Journal.Limit)
		modelOpts = append(modelOpts, tui.WithActivityService(loggedActivity{next: svc, logger: logger}))
	}

	m := tui.NewModel(board, modelOpts...)
	logger.Info("starting tui program loop")
	if _, err := programFactory(ctx, m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui", "tasks", board.Len(), "remaining", board.RemainingCount())
	return nil
}

// toTUIRuntimeConfig maps config values into runtime model options.
func toTUIRuntimeConfig(cfg config.Config) tui.RuntimeConfig {
	return tui.RuntimeConfig{
		Placeholder: cfg.UI.Placeholder,
		Keys: tui.KeyConfig{
			ToggleTheme:    cfg.Keys.ToggleTheme,
			ClearCompleted: cfg.Keys.ClearCompleted,
			CycleFilter:    cfg.Keys.CycleFilter,
			ActivityLog:    cfg.Keys.ActivityLog,
			Copy:           cfg.Keys.Copy,
		},
	}
}

// loggedActivity logs journal traffic before delegating to the service.
type loggedActivity struct {
	next   tui.Service
	logger *runtimeLogger
}

// RecordChange records one change and logs failures.
func (a loggedActivity) RecordChange(ctx context.Context, op domain.ChangeOperation, taskID int64, text string) error {
	a.logger.Debug("board change", "op", op, "task_id", taskID, "text", text)
	if err := a.next.RecordChange(ctx, op, taskID, text); err != nil {
		a.logger.Error("record change failed", "op", op, "err", err)
		return err
	}
	return nil
}

// ListRecentChanges lists journal entries and logs failures.
func (a loggedActivity) ListRecentChanges(ctx context.Context) ([]domain.ChangeEvent, error) {
	events, err := a.next.ListRecentChanges(ctx)
	if err != nil {
		a.logger.Error("list changes failed", "err", err)
		return nil, err
	}
	return events, nil
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// runtimeLogger fans log events to a styled console sink and an optional rotating file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	filePath       string
}

// newRuntimeLogger configures runtime log sinks from CLI/config state.
func newRuntimeLogger(stderr io.Writer, appName string, cfg config.LoggingConfig) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})

	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	if !cfg.File.Enabled {
		return logger, nil
	}

	logDir := strings.TrimSpace(cfg.File.Dir)
	if logDir == "" {
		return nil, fmt.Errorf("logging.file.dir is required when file logging is enabled")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, sanitizeLogFileStem(appName)+".log"),
		MaxSize:    cfg.File.MaxSizeMB,
		MaxBackups: cfg.File.MaxBackups,
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(rotating, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.closeFile = rotating.Close
	logger.filePath = rotating.Filename
	return logger, nil
}

// FileLogPath returns the active log file path.
func (l *runtimeLogger) FileLogPath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

// Close closes the optional file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// shouldLogToSink reports whether one sink should receive runtime output.
func (l *runtimeLogger) shouldLogToSink(sink *charmLog.Logger) bool {
	if l == nil || sink == nil {
		return false
	}
	if sink == l.consoleSink && !l.consoleEnabled {
		return false
	}
	return true
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	l.each(func(sink *charmLog.Logger) { sink.Debug(msg, keyvals...) })
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	l.each(func(sink *charmLog.Logger) { sink.Info(msg, keyvals...) })
}

// Warn logs a warning event to all configured sinks.
func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	l.each(func(sink *charmLog.Logger) { sink.Warn(msg, keyvals...) })
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	l.each(func(sink *charmLog.Logger) { sink.Error(msg, keyvals...) })
}

// each applies fn to every enabled sink.
func (l *runtimeLogger) each(fn func(*charmLog.Logger)) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if l.shouldLogToSink(sink) {
			fn(sink)
		}
	}
}

// sanitizeLogFileStem normalizes app names into safe file-name segments.
func sanitizeLogFileStem(appName string) string {
	stem := strings.TrimSpace(appName)
	if stem == "" {
		return "todos"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem = strings.Trim(replacer.Replace(stem), "-")
	if stem == "" {
		return "todos"
	}
	return stem
}
