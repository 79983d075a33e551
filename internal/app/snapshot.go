package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hylla/tavla/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "tavla.snapshot.v1"

// Snapshot is a portable copy of the board.
type Snapshot struct {
	Version     string              `json:"version" yaml:"version"`
	ExportedAt  time.Time           `json:"exported_at" yaml:"exported_at"`
	Preferences SnapshotPreferences `json:"preferences" yaml:"preferences"`
	Tasks       []TaskRecord        `json:"tasks" yaml:"tasks"`
}

// SnapshotPreferences holds exported presentation settings.
type SnapshotPreferences struct {
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Theme    string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// ExportSnapshot handles export snapshot.
func (s *Service) ExportSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Preferences: SnapshotPreferences{
			Language: string(s.prefs.Language),
			Theme:    string(s.prefs.Theme),
		},
		Tasks: make([]TaskRecord, 0, len(s.tasks)),
	}
	for _, task := range s.tasks {
		snap.Tasks = append(snap.Tasks, RecordFromTask(task))
	}
	return snap
}

// ImportSnapshot validates snap and replaces the board and preferences with it.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) (Outcome, error) {
	tasks, err := snap.Validate()
	if err != nil {
		return Outcome{}, err
	}
	out, err := s.ReplaceTasks(ctx, tasks)
	if err != nil {
		return Outcome{}, err
	}
	if raw := strings.TrimSpace(snap.Preferences.Language); raw != "" {
		if err := s.SetLanguage(ctx, domain.Language(raw)); err != nil {
			return out, fmt.Errorf("import language: %w", err)
		}
	}
	if raw := strings.TrimSpace(snap.Preferences.Theme); raw != "" {
		if err := s.SetTheme(ctx, domain.Theme(raw)); err != nil {
			return out, fmt.Errorf("import theme: %w", err)
		}
	}
	return out, nil
}

// Validate checks the snapshot and returns its tasks in order.
func (s Snapshot) Validate() ([]domain.Task, error) {
	if s.Version != "" && s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %q", s.Version)
	}
	if raw := strings.TrimSpace(s.Preferences.Language); raw != "" {
		if _, err := domain.ParseLanguage(raw); err != nil {
			return nil, fmt.Errorf("preferences.language %q: %w", raw, err)
		}
	}
	if raw := strings.TrimSpace(s.Preferences.Theme); raw != "" {
		if _, err := domain.ParseTheme(raw); err != nil {
			return nil, fmt.Errorf("preferences.theme %q: %w", raw, err)
		}
	}

	tasks := make([]domain.Task, 0, len(s.Tasks))
	ids := map[string]struct{}{}
	for i, record := range s.Tasks {
		task, err := record.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		if task.CreatedAt.IsZero() {
			return nil, fmt.Errorf("tasks[%d] timestamps are required", i)
		}
		if _, exists := ids[task.ID]; exists {
			return nil, fmt.Errorf("duplicate task id: %q", task.ID)
		}
		ids[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
