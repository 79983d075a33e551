package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hylla/tavla/internal/adapters/storage/memory"
	"github.com/hylla/tavla/internal/adapters/storage/sqlite"
	"github.com/hylla/tavla/internal/app"
	"github.com/hylla/tavla/internal/config"
	"github.com/hylla/tavla/internal/platform"
	"github.com/hylla/tavla/internal/tui"
)

// version is stamped at build time.
var version = "dev"

// program is the subset of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program. Tests replace it.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	// fang already printed the error.
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	envFile    string
	devMode    bool
	ephemeral  bool
}

// run builds the command tree and executes it against args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(os.Stdin)
	return fang.Execute(ctx, root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	)
}

// newRootCommand wires the board TUI and its scripting subcommands.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "tavla",
		Short: "A three-column task board for the terminal",
		Long: "tavla keeps a local task board with not started, in progress and completed columns.\n" +
			"Run it without a command to open the interactive board.",
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.applyEnv(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&opts.appName, "app", platform.DefaultAppName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", version == "dev", "use dev mode paths (<app>-dev)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file loaded before TAVLA_* variables are read")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the board in memory only")

	root.AddCommand(
		newAddCommand(opts),
		newListCommand(opts),
		newMoveCommand(opts),
		newDeleteCommand(opts),
		newProgressCommand(opts),
		newPrefsCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newLogCommand(opts),
		newPathsCommand(opts),
		newInitCommand(opts),
		newPaletteCommand(),
	)
	return root
}

// applyEnv loads the optional dotenv file and fills unset flags from TAVLA_* variables.
func (o *rootOptions) applyEnv(cmd *cobra.Command) error {
	if path := strings.TrimSpace(o.envFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %q: %w", path, err)
		}
	}
	flags := cmd.Flags()
	if !flags.Changed("app") {
		if envApp := strings.TrimSpace(os.Getenv("TAVLA_APP_NAME")); envApp != "" {
			o.appName = envApp
		}
	}
	if !flags.Changed("dev") {
		if envDev, ok := parseBoolEnv("TAVLA_DEV_MODE"); ok {
			o.devMode = envDev
		}
	}
	if !flags.Changed("config") {
		if envPath := strings.TrimSpace(os.Getenv("TAVLA_CONFIG")); envPath != "" {
			o.configPath = envPath
		}
	}
	if !flags.Changed("db") {
		if envPath := strings.TrimSpace(os.Getenv("TAVLA_DB_PATH")); envPath != "" {
			o.dbPath = envPath
		}
	}
	return nil
}

// resolvedPaths pairs the platform defaults with flag and env overrides.
type resolvedPaths struct {
	platform.Paths
	config       string
	db           string
	dbOverridden bool
}

// resolvePaths resolves the config and database locations for this run.
func (o *rootOptions) resolvePaths() (resolvedPaths, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
	if err != nil {
		return resolvedPaths{}, err
	}
	out := resolvedPaths{Paths: paths, config: paths.ConfigPath, db: paths.DBPath}
	if path := strings.TrimSpace(o.configPath); path != "" {
		out.config = path
	}
	if path := strings.TrimSpace(o.dbPath); path != "" {
		out.db = path
		out.dbOverridden = true
	}
	return out, nil
}

// runtime bundles the loaded config, logger and board service for one command.
type runtime struct {
	cfg    config.Config
	paths  resolvedPaths
	logger *runtimeLogger
	svc    *app.Service
	close  func()
}

// Close releases the store and log sinks.
func (r *runtime) Close() {
	if r == nil || r.close == nil {
		return
	}
	r.close()
}

// openRuntime loads config, builds the logger, opens the store and loads the board.
// quietConsole keeps runtime logs off the terminal while the TUI owns it.
func openRuntime(ctx context.Context, opts *rootOptions, stderr io.Writer, command string, quietConsole bool) (*runtime, error) {
	paths, err := opts.resolvePaths()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(paths.config, config.Default(paths.db))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", paths.config, err)
	}
	if paths.dbOverridden {
		cfg.Database.Path = paths.db
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, paths.LogDir, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if quietConsole {
		logger.SetConsoleEnabled(false)
	}
	closers := []func(){func() {
		if closeErr := logger.Close(); closeErr != nil && logger.shouldLogToSink(logger.consoleSink) {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}}
	rt := &runtime{
		cfg:    cfg,
		paths:  paths,
		logger: logger,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", paths.config, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	var (
		store    app.SlotStore
		activity app.ActivityLog
	)
	if opts.ephemeral {
		logger.Info("using in-memory store")
		store = memory.New()
	} else {
		logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
		repo, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
			rt.Close()
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		closers = append(closers, func() {
			if closeErr := repo.Close(); closeErr != nil {
				logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
			}
		})
		store = repo
		activity = repo
	}

	rt.svc = app.NewService(store, newTaskID, nil, app.ServiceConfig{
		DefaultStatus:      cfg.DefaultStatus(),
		DefaultPreferences: cfg.Preferences(platform.Locale(os.Getenv)),
		Activity:           activity,
		Logger:             logger,
	})
	if err := rt.svc.Load(ctx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("load board: %w", err)
	}
	logger.Debug("board loaded", "tasks", len(rt.svc.Tasks()), "default_status", cfg.DefaultStatus())
	return rt, nil
}

// runTUI opens the interactive board.
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr(), "tui", true)
	if err != nil {
		return err
	}
	defer rt.Close()

	m := tui.NewModel(rt.svc, tuiOptions(rt.cfg)...)
	rt.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

// tuiOptions maps config values onto model options.
func tuiOptions(cfg config.Config) []tui.Option {
	return []tui.Option{
		tui.WithBoardConfig(tui.BoardConfig{
			ShowProgress:    cfg.Board.ShowProgress,
			ShowLabels:      cfg.Board.ShowLabels,
			ShowDescription: cfg.Board.ShowDescription,
		}),
		tui.WithDeleteFade(cfg.DeleteFade()),
		tui.WithCelebrationDuration(cfg.CelebrationDuration()),
		tui.WithKeyConfig(tui.KeyConfig{
			AddTask:     cfg.Keys.AddTask,
			DeleteTask:  cfg.Keys.DeleteTask,
			CopyText:    cfg.Keys.CopyText,
			ActivityLog: cfg.Keys.ActivityLog,
			Language:    cfg.Keys.Language,
			Theme:       cfg.Keys.Theme,
		}),
	}
}

// newTaskID returns a time-ordered task id.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// parseBoolEnv reads a boolean environment variable. ok is false when unset or malformed.
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
