package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hylla/tavla/internal/domain"
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	DefaultStatus      domain.Status
	DefaultPreferences domain.Preferences
	Activity           ActivityLog
	Logger             Logger
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service owns the board's task list and preferences and mirrors them to a SlotStore.
type Service struct {
	store         SlotStore
	idGen         IDGenerator
	clock         Clock
	activity      ActivityLog
	logger        Logger
	defaultStatus domain.Status
	defaultPrefs  domain.Preferences

	mu       sync.Mutex
	tasks    []domain.Task
	prefs    domain.Preferences
	detector CompletionDetector
}

// NewService constructs a new value for this package.
func NewService(store SlotStore, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if !cfg.DefaultStatus.Valid() {
		cfg.DefaultStatus = domain.StatusNotStarted
	}
	defaults := domain.DefaultPreferences()
	if _, err := domain.ParseLanguage(string(cfg.DefaultPreferences.Language)); err == nil {
		defaults.Language = cfg.DefaultPreferences.Language
	}
	if _, err := domain.ParseTheme(string(cfg.DefaultPreferences.Theme)); err == nil {
		defaults.Theme = cfg.DefaultPreferences.Theme
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	return &Service{
		store:         store,
		idGen:         idGen,
		clock:         clock,
		activity:      cfg.Activity,
		logger:        cfg.Logger,
		defaultStatus: cfg.DefaultStatus,
		defaultPrefs:  defaults,
		tasks:         []domain.Task{},
		prefs:         defaults,
	}
}

// Outcome describes the board after a mutation.
type Outcome struct {
	Task      domain.Task
	Changed   bool
	Celebrate bool
	Progress  domain.Progress
}

// Load reads tasks and preferences from the store. Unreadable state is replaced
// with an empty board or default preferences and reported through the logger.
func (s *Service) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = s.readTasks(ctx)
	s.prefs = domain.Preferences{
		Language: s.readLanguage(ctx),
		Theme:    s.readTheme(ctx),
	}
	s.detector.Reset()
	s.detector.Observe(s.tasks)
	return nil
}

func (s *Service) readTasks(ctx context.Context) []domain.Task {
	data, err := s.store.ReadSlot(ctx, KeyTasks)
	if errors.Is(err, ErrSlotNotFound) {
		return []domain.Task{}
	}
	if err != nil {
		s.logger.Warn("task slot unreadable, starting empty", "err", err)
		return []domain.Task{}
	}
	tasks, skipped, err := decodeTasks(data)
	if err != nil {
		s.logger.Warn("task slot undecodable, starting empty", "err", err)
		return []domain.Task{}
	}
	for _, skipErr := range skipped {
		s.logger.Warn("dropping invalid stored task", "err", skipErr)
	}
	return tasks
}

func (s *Service) readLanguage(ctx context.Context) domain.Language {
	raw, ok := s.readPreference(ctx, KeyLanguage)
	if !ok {
		return s.defaultPrefs.Language
	}
	lang, err := domain.ParseLanguage(raw)
	if err != nil {
		s.logger.Warn("ignoring stored language", "value", raw, "err", err)
		return s.defaultPrefs.Language
	}
	return lang
}

func (s *Service) readTheme(ctx context.Context) domain.Theme {
	raw, ok := s.readPreference(ctx, KeyTheme)
	if !ok {
		return s.defaultPrefs.Theme
	}
	theme, err := domain.ParseTheme(raw)
	if err != nil {
		s.logger.Warn("ignoring stored theme", "value", raw, "err", err)
		return s.defaultPrefs.Theme
	}
	return theme
}

func (s *Service) readPreference(ctx context.Context, key string) (string, bool) {
	data, err := s.store.ReadSlot(ctx, key)
	if errors.Is(err, ErrSlotNotFound) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("preference slot unreadable", "key", key, "err", err)
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Tasks returns a copy of the full ordered task list.
func (s *Service) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// ListTasks returns the tasks matching filter in board order.
func (s *Service) ListTasks(filter domain.Filter) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(domain.FilterTasks(s.tasks, filter))
}

// Task returns one task by id.
func (s *Service) Task(id string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOfTask(s.tasks, strings.TrimSpace(id))
	if idx < 0 {
		return domain.Task{}, ErrNotFound
	}
	return s.tasks[idx].Clone(), nil
}

// Progress returns per-status counts for the whole board.
func (s *Service) Progress() domain.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ProgressOf(s.tasks)
}

// DefaultStatus returns the status given to tasks added without one.
func (s *Service) DefaultStatus() domain.Status {
	return s.defaultStatus
}

// AddTaskInput holds input values for add task operations.
type AddTaskInput struct {
	Text        string
	Description string
	Status      domain.Status
	Labels      []string
}

// AddTask appends a new task to the board.
func (s *Service) AddTask(ctx context.Context, in AddTaskInput) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if strings.TrimSpace(string(status)) == "" {
		status = s.defaultStatus
	}
	task, err := domain.NewTask(domain.TaskInput{
		ID:          s.idGen(),
		Text:        in.Text,
		Description: in.Description,
		Status:      status,
		Labels:      in.Labels,
	}, s.clock())
	if err != nil {
		return Outcome{}, err
	}
	if indexOfTask(s.tasks, task.ID) >= 0 {
		return Outcome{}, ErrDuplicateTaskID
	}

	next := append(cloneTasks(s.tasks), task)
	if err := s.commit(ctx, next); err != nil {
		return Outcome{}, err
	}
	s.record(ctx, domain.ChangeEvent{
		TaskID:    task.ID,
		Operation: domain.ChangeOperationCreate,
		Metadata:  map[string]string{"status": string(task.Status), "text": task.Text},
	})
	return s.outcome(task, true), nil
}

// MoveTaskInput holds input values for move task operations.
type MoveTaskInput struct {
	TaskID string
	Status domain.Status
	// BeforeID places the task ahead of another task. Empty appends to the end.
	BeforeID string
}

// MoveTask changes a task's status and position. BeforeID must name a task in
// the destination column. Nothing is persisted when neither changes.
func (s *Service) MoveTask(ctx context.Context, in MoveTaskInput) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taskID := strings.TrimSpace(in.TaskID)
	beforeID := strings.TrimSpace(in.BeforeID)
	idx := indexOfTask(s.tasks, taskID)
	if idx < 0 {
		return Outcome{}, ErrNotFound
	}
	target, err := domain.ParseStatus(string(in.Status))
	if err != nil {
		return Outcome{}, err
	}
	if beforeID != "" && beforeID != taskID {
		anchor := indexOfTask(s.tasks, beforeID)
		if anchor < 0 {
			return Outcome{}, fmt.Errorf("insert before %q: %w", beforeID, ErrNotFound)
		}
		if s.tasks[anchor].Status != target {
			return Outcome{}, fmt.Errorf("insert before %q: %w", beforeID, ErrAnchorOtherColumn)
		}
	}

	next := cloneTasks(s.tasks)
	task := next[idx]
	from := task.Status
	statusChanged, err := task.SetStatus(target, s.clock())
	if err != nil {
		return Outcome{}, err
	}
	next[idx] = task
	if beforeID != taskID {
		next = relocate(next, taskID, beforeID)
	}

	// Only the destination column's order is visible.
	if !statusChanged && sameOrder(domain.TasksWithStatus(s.tasks, target), domain.TasksWithStatus(next, target)) {
		return s.outcome(task, false), nil
	}
	if err := s.commit(ctx, next); err != nil {
		return Outcome{}, err
	}
	s.record(ctx, domain.ChangeEvent{
		TaskID:    task.ID,
		Operation: domain.ChangeOperationMove,
		Metadata:  map[string]string{"from": string(from), "to": string(task.Status), "before": beforeID, "text": task.Text},
	})
	return s.outcome(task, true), nil
}

// DeleteTask removes one task by id.
func (s *Service) DeleteTask(ctx context.Context, id string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	idx := indexOfTask(s.tasks, id)
	if idx < 0 {
		return Outcome{}, ErrNotFound
	}
	removed := s.tasks[idx].Clone()
	next := slices.Delete(cloneTasks(s.tasks), idx, idx+1)
	if err := s.commit(ctx, next); err != nil {
		return Outcome{}, err
	}
	s.record(ctx, domain.ChangeEvent{
		TaskID:    removed.ID,
		Operation: domain.ChangeOperationDelete,
		Metadata:  map[string]string{"status": string(removed.Status), "text": removed.Text},
	})
	return s.outcome(removed, true), nil
}

// ReplaceTasks swaps the whole board for tasks after validating every entry.
func (s *Service) ReplaceTasks(ctx context.Context, tasks []domain.Task) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Task, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))
	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			return Outcome{}, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		if _, dup := seen[task.ID]; dup {
			return Outcome{}, fmt.Errorf("tasks[%d] %q: %w", i, task.ID, ErrDuplicateTaskID)
		}
		seen[task.ID] = struct{}{}
		next = append(next, task.Clone())
	}
	if err := s.commit(ctx, next); err != nil {
		return Outcome{}, err
	}
	s.record(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationImport,
		Metadata:  map[string]string{"count": fmt.Sprint(len(next))},
	})
	return s.outcome(domain.Task{}, true), nil
}

// Preferences returns the active language and theme.
func (s *Service) Preferences() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetLanguage persists and applies a language.
func (s *Service) SetLanguage(ctx context.Context, lang domain.Language) error {
	lang, err := domain.ParseLanguage(string(lang))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.WriteSlot(ctx, KeyLanguage, []byte(lang)); err != nil {
		return fmt.Errorf("persist language: %w", err)
	}
	s.prefs.Language = lang
	return nil
}

// SetTheme persists and applies a theme.
func (s *Service) SetTheme(ctx context.Context, theme domain.Theme) error {
	theme, err := domain.ParseTheme(string(theme))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.WriteSlot(ctx, KeyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	s.prefs.Theme = theme
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Service) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	next := s.Preferences().Theme.Toggle()
	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// ListChangeEvents returns the most recent activity entries, newest first.
func (s *Service) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if s.activity == nil {
		return nil, ErrActivityUnavailable
	}
	if limit <= 0 {
		limit = 50
	}
	return s.activity.ListChangeEvents(ctx, limit)
}

// commit persists next and, on success, makes it the live list.
func (s *Service) commit(ctx context.Context, next []domain.Task) error {
	data, err := encodeTasks(next)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.store.WriteSlot(ctx, KeyTasks, data); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *Service) outcome(task domain.Task, changed bool) Outcome {
	out := Outcome{
		Task:     task,
		Changed:  changed,
		Progress: domain.ProgressOf(s.tasks),
	}
	if changed {
		out.Celebrate = s.detector.Observe(s.tasks)
	}
	return out
}

func (s *Service) record(ctx context.Context, event domain.ChangeEvent) {
	if s.activity == nil {
		return
	}
	event.OccurredAt = s.clock().UTC()
	if err := s.activity.RecordChange(ctx, event); err != nil {
		s.logger.Warn("activity record failed", "op", event.Operation, "task_id", event.TaskID, "err", err)
	}
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Clone())
	}
	return out
}

func indexOfTask(tasks []domain.Task, id string) int {
	return slices.IndexFunc(tasks, func(t domain.Task) bool { return t.ID == id })
}

// relocate moves taskID ahead of beforeID, or to the end when beforeID is empty.
func relocate(tasks []domain.Task, taskID, beforeID string) []domain.Task {
	idx := indexOfTask(tasks, taskID)
	if idx < 0 {
		return tasks
	}
	task := tasks[idx]
	tasks = slices.Delete(tasks, idx, idx+1)
	at := len(tasks)
	if beforeID != "" {
		if pos := indexOfTask(tasks, beforeID); pos >= 0 {
			at = pos
		}
	}
	return slices.Insert(tasks, at, task)
}

func sameOrder(a, b []domain.Task) bool {
	return slices.EqualFunc(a, b, func(x, y domain.Task) bool { return x.ID == y.ID })
}
