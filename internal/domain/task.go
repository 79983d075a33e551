package domain

import (
	"slices"
	"strings"
	"time"
)

// Task is a single card on the board.
type Task struct {
	ID          string
	Text        string
	Description string
	Status      Status
	Labels      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskInput holds the values accepted when creating a task.
type TaskInput struct {
	ID          string
	Text        string
	Description string
	Status      Status
	Labels      []string
}

// NewTask validates input and returns a task stamped with now.
func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Text = strings.TrimSpace(in.Text)
	in.Description = strings.TrimSpace(in.Description)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.Text == "" {
		return Task{}, ErrInvalidText
	}
	status := normalizeStatus(string(in.Status))
	if !status.Valid() {
		return Task{}, ErrInvalidStatus
	}

	return Task{
		ID:          in.ID,
		Text:        in.Text,
		Description: in.Description,
		Status:      status,
		Labels:      normalizeLabels(in.Labels),
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// SetStatus moves the task to status and reports whether anything changed.
// UpdatedAt only advances on an actual transition.
func (t *Task) SetStatus(status Status, now time.Time) (bool, error) {
	status = normalizeStatus(string(status))
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	if t.Status == status {
		return false, nil
	}
	t.Status = status
	t.UpdatedAt = now.UTC()
	return true, nil
}

// HasLabel reports whether the task carries label.
func (t Task) HasLabel(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	return slices.Contains(t.Labels, label)
}

// Validate checks invariants on a task decoded from storage.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrInvalidID
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrInvalidText
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	t.Labels = slices.Clone(t.Labels)
	return t
}

// NormalizeLabels trims, lowercases, dedupes, and sorts labels.
func NormalizeLabels(labels []string) []string {
	return normalizeLabels(labels)
}

func normalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := map[string]struct{}{}
	for _, raw := range labels {
		label := strings.ToLower(strings.TrimSpace(raw))
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}
