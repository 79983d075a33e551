package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/hylla/tavla/internal/app"
	"github.com/hylla/tavla/internal/config"
	"github.com/hylla/tavla/internal/domain"
	"github.com/hylla/tavla/internal/i18n"
	"github.com/hylla/tavla/internal/tui"
)

// Output formats accepted by list and export.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// withRuntime opens the board for one command run and closes it afterwards.
func withRuntime(cmd *cobra.Command, opts *rootOptions, fn func(*runtime) error) error {
	rt, err := openRuntime(cmd.Context(), opts, cmd.ErrOrStderr(), cmd.Name(), false)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("command flow start", "command", cmd.Name())
	if err := fn(rt); err != nil {
		rt.logger.Error("command flow failed", "command", cmd.Name(), "err", err)
		return err
	}
	rt.logger.Info("command flow complete", "command", cmd.Name())
	return nil
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	var (
		status      string
		labels      []string
		description string
	)
	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := app.AddTaskInput{
				Text:        strings.Join(args, " "),
				Description: description,
				Labels:      labels,
			}
			if strings.TrimSpace(status) != "" {
				parsed, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				in.Status = parsed
			}
			return withRuntime(cmd, opts, func(rt *runtime) error {
				out, err := rt.svc.AddTask(cmd.Context(), in)
				if err != nil {
					return fmt.Errorf("add task: %w", err)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "added %s (%s)\n", out.Task.ID, out.Task.Status)
				printCelebration(w, rt.svc.Preferences().Language, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "initial status (defaults to board.default_status)")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "label to attach (repeatable)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "markdown description")
	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		status string
		label  string
		format string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks by column",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseFilter(status, label)
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(rt *runtime) error {
				tasks := rt.svc.ListTasks(filter)
				w := cmd.OutOrStdout()
				switch format {
				case formatText:
					writeTaskColumns(w, tasks, filter, rt.svc.Preferences().Language, time.Now())
					return nil
				case formatJSON, formatYAML:
					records := make([]app.TaskRecord, 0, len(tasks))
					for _, task := range tasks {
						records = append(records, app.RecordFromTask(task))
					}
					return writeEncoded(w, records, format)
				default:
					return fmt.Errorf("unsupported format %q", format)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only show one status")
	cmd.Flags().StringVarP(&label, "label", "l", "", "only show tasks with this label")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

func newMoveCommand(opts *rootOptions) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(rt *runtime) error {
				out, err := rt.svc.MoveTask(cmd.Context(), app.MoveTaskInput{
					TaskID:   args[0],
					Status:   status,
					BeforeID: before,
				})
				if err != nil {
					return fmt.Errorf("move task: %w", err)
				}
				w := cmd.OutOrStdout()
				if !out.Changed {
					_, _ = fmt.Fprintln(w, "no change")
					return nil
				}
				_, _ = fmt.Fprintf(w, "moved %s -> %s\n", out.Task.ID, out.Task.Status)
				printCelebration(w, rt.svc.Preferences().Language, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "place the task ahead of this task id")
	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				w := cmd.OutOrStdout()
				for _, id := range args {
					out, err := rt.svc.DeleteTask(cmd.Context(), id)
					if err != nil {
						return fmt.Errorf("delete task %q: %w", id, err)
					}
					_, _ = fmt.Fprintf(w, "deleted %s\n", out.Task.ID)
					printCelebration(w, rt.svc.Preferences().Language, out)
				}
				return nil
			})
		},
	}
}

func newProgressCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show completion progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				p := rt.svc.Progress()
				lang := rt.svc.Preferences().Language
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s: %d/%d (%d%%)\n", i18n.T(lang, i18n.ProgressLabel), p.Completed, p.Total, p.Percent())
				for _, status := range domain.Statuses() {
					_, _ = fmt.Fprintf(w, "  %s: %d\n", i18n.StatusName(lang, status), p.Count(status))
				}
				return nil
			})
		},
	}
}

func newPrefsCommand(opts *rootOptions) *cobra.Command {
	var (
		lang  string
		theme string
	)
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change language and theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				if cmd.Flags().Changed("lang") {
					if err := rt.svc.SetLanguage(cmd.Context(), domain.Language(strings.TrimSpace(lang))); err != nil {
						return fmt.Errorf("set language: %w", err)
					}
				}
				if cmd.Flags().Changed("theme") {
					if err := rt.svc.SetTheme(cmd.Context(), domain.Theme(strings.TrimSpace(theme))); err != nil {
						return fmt.Errorf("set theme: %w", err)
					}
				}
				prefs := rt.svc.Preferences()
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "language: %s\n", prefs.Language)
				_, _ = fmt.Fprintf(w, "theme: %s\n", prefs.Theme)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "interface language: ja, en or zh")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme: light or dark")
	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		outPath string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a board snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unsupported format %q", format)
			}
			return withRuntime(cmd, opts, func(rt *runtime) error {
				snap := rt.svc.ExportSnapshot()
				if outPath == "-" {
					return writeEncoded(cmd.OutOrStdout(), snap, format)
				}
				var buf strings.Builder
				if err := writeEncoded(&buf, snap, format); err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return fmt.Errorf("create export output dir: %w", err)
				}
				if err := os.WriteFile(outPath, []byte(buf.String()), 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				rt.logger.Info("snapshot exported", "path", outPath, "tasks", len(snap.Tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file path ('-' for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "snapshot format: json or yaml")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path|->",
		Short: "Replace the board with a snapshot",
		Long:  "Reads a JSON, JSONC or YAML snapshot and replaces every task. Nothing changes if any record is invalid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			snap, err := decodeSnapshot(args[0], content)
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(rt *runtime) error {
				out, err := rt.svc.ImportSnapshot(cmd.Context(), snap)
				if err != nil {
					return fmt.Errorf("import snapshot: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks\n", out.Progress.Total)
				return nil
			})
		},
	}
}

func newLogCommand(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent board activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *runtime) error {
				events, err := rt.svc.ListChangeEvents(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("list activity: %w", err)
				}
				w := cmd.OutOrStdout()
				for _, event := range events {
					_, _ = fmt.Fprintf(w, "%s  %-6s  %s\n", event.OccurredAt.UTC().Format(time.RFC3339), event.Operation, describeEvent(event))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(w, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(w, "config: %s\n", paths.config)
			_, _ = fmt.Fprintf(w, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(w, "db: %s\n", paths.db)
			_, _ = fmt.Fprintf(w, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			wrote, err := config.WriteDefault(paths.config, config.Default(paths.db))
			if err != nil {
				return err
			}
			if wrote {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", paths.config)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kept existing %s\n", paths.config)
			}
			return nil
		},
	}
}

func newPaletteCommand() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:    "palette",
		Short:  "Preview the board color themes",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			themes := []domain.Theme{domain.ThemeLight, domain.ThemeDark}
			if strings.TrimSpace(theme) != "" {
				parsed, err := domain.ParseTheme(theme)
				if err != nil {
					return err
				}
				themes = []domain.Theme{parsed}
			}
			w := cmd.OutOrStdout()
			for i, t := range themes {
				if i > 0 {
					_, _ = fmt.Fprintln(w)
				}
				_, _ = fmt.Fprint(w, tui.RenderPalette(t))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "only preview one theme: light or dark")
	return cmd
}

// writeTaskColumns prints tasks grouped by status in board order.
func writeTaskColumns(w io.Writer, tasks []domain.Task, filter domain.Filter, lang domain.Language, now time.Time) {
	for _, status := range domain.Statuses() {
		if filter.Status != "" && filter.Status != status {
			continue
		}
		column := domain.TasksWithStatus(tasks, status)
		_, _ = fmt.Fprintf(w, "%s (%d)\n", i18n.StatusName(lang, status), len(column))
		if len(column) == 0 {
			_, _ = fmt.Fprintf(w, "  %s\n", i18n.T(lang, i18n.TaskEmpty))
			continue
		}
		for _, task := range column {
			line := fmt.Sprintf("  %s  %s", task.ID, task.Text)
			if len(task.Labels) > 0 {
				line += "  #" + strings.Join(task.Labels, " #")
			}
			line += "  (" + humanize.RelTime(task.CreatedAt, now, "ago", "from now") + ")"
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

// writeEncoded writes v as indented JSON or YAML.
func writeEncoded(w io.Writer, v any, format string) error {
	switch format {
	case formatJSON:
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		encoded = append(encoded, '\n')
		if _, err := w.Write(encoded); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// readInput reads a file path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return content, nil
}

// decodeSnapshot decodes YAML for .yaml/.yml paths and JSON with comments otherwise.
func decodeSnapshot(path string, content []byte) (app.Snapshot, error) {
	var snap app.Snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &snap); err != nil {
			return app.Snapshot{}, fmt.Errorf("decode snapshot yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(content), &snap); err != nil {
			return app.Snapshot{}, fmt.Errorf("decode snapshot json: %w", err)
		}
	}
	return snap, nil
}

// describeEvent renders an activity entry's details on one line.
func describeEvent(event domain.ChangeEvent) string {
	meta := event.Metadata
	switch event.Operation {
	case domain.ChangeOperationMove:
		return fmt.Sprintf("%s %q %s -> %s", event.TaskID, meta["text"], meta["from"], meta["to"])
	case domain.ChangeOperationCreate, domain.ChangeOperationDelete:
		return fmt.Sprintf("%s %q [%s]", event.TaskID, meta["text"], meta["status"])
	case domain.ChangeOperationImport:
		return fmt.Sprintf("%s tasks", meta["count"])
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := []string{event.TaskID}
	for _, k := range keys {
		parts = append(parts, k+"="+meta[k])
	}
	return strings.Join(parts, " ")
}

// printCelebration prints the localized completion banner when out says the board just finished.
func printCelebration(w io.Writer, lang domain.Language, out app.Outcome) {
	if !out.Celebrate {
		return
	}
	_, _ = fmt.Fprintln(w, i18n.T(lang, i18n.CompletionTitle))
	_, _ = fmt.Fprintln(w, i18n.T(lang, i18n.CompletionMessage))
}
