package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hylla/tavla/internal/domain"
)

// TaskRecord is the persisted shape of one task.
type TaskRecord struct {
	ID          RecordID  `json:"id" yaml:"id"`
	Text        string    `json:"text" yaml:"text"`
	Title       string    `json:"title,omitempty" yaml:"-"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string    `json:"status" yaml:"status"`
	Labels      []string  `json:"labels" yaml:"labels"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// RecordID is a task identifier that also decodes from a JSON number.
// Boards written by older clients keyed tasks by a millisecond timestamp.
type RecordID string

// UnmarshalJSON accepts either a string or a number.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode task id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// RecordFromTask converts a task into its persisted shape.
func RecordFromTask(t domain.Task) TaskRecord {
	labels := append([]string{}, t.Labels...)
	return TaskRecord{
		ID:          RecordID(t.ID),
		Text:        t.Text,
		Description: t.Description,
		Status:      string(t.Status),
		Labels:      labels,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

// ToDomain validates the record and converts it into a task.
func (r TaskRecord) ToDomain() (domain.Task, error) {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		text = strings.TrimSpace(r.Title)
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return domain.Task{}, err
	}
	task := domain.Task{
		ID:          strings.TrimSpace(string(r.ID)),
		Text:        text,
		Description: strings.TrimSpace(r.Description),
		Status:      status,
		Labels:      domain.NormalizeLabels(r.Labels),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	if err := task.Validate(); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// encodeTasks serializes the full task list for the tasks slot.
func encodeTasks(tasks []domain.Task) ([]byte, error) {
	records := make([]TaskRecord, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, RecordFromTask(task))
	}
	return json.Marshal(records)
}

// decodeTasks parses the tasks slot. Records that fail validation are skipped and
// reported alongside the surviving tasks.
func decodeTasks(data []byte) ([]domain.Task, []error, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Task{}, nil, nil
	}
	var records []TaskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	var skipped []error
	for i, record := range records {
		task, err := record.ToDomain()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("tasks[%d]: %w", i, err))
			continue
		}
		if _, dup := seen[task.ID]; dup {
			skipped = append(skipped, fmt.Errorf("tasks[%d] %q: %w", i, task.ID, ErrDuplicateTaskID))
			continue
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, skipped, nil
}
