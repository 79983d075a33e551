package domain

import (
	"slices"
	"strings"
)

// Status identifies the board column a task belongs to.
type Status string

// Status values, in board order.
const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var boardStatuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// Statuses returns the board statuses in column order.
func Statuses() []Status {
	return slices.Clone(boardStatuses)
}

// ParseStatus normalizes a raw status string, accepting common aliases.
func ParseStatus(raw string) (Status, error) {
	status := normalizeStatus(raw)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid reports whether the status is one of the board statuses.
func (s Status) Valid() bool {
	return slices.Contains(boardStatuses, s)
}

// Terminal reports whether the status ends a task's lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Index returns the column index for the status, or -1.
func (s Status) Index() int {
	return slices.Index(boardStatuses, s)
}

// Next returns the status of the column to the right, clamped at the last column.
func (s Status) Next() Status {
	idx := s.Index()
	if idx < 0 || idx+1 >= len(boardStatuses) {
		return s
	}
	return boardStatuses[idx+1]
}

// Prev returns the status of the column to the left, clamped at the first column.
func (s Status) Prev() Status {
	idx := s.Index()
	if idx <= 0 {
		return s
	}
	return boardStatuses[idx-1]
}

// normalizeStatus maps aliases onto canonical statuses.
func normalizeStatus(raw string) Status {
	value := strings.TrimSpace(strings.ToLower(raw))
	switch value {
	case "todo", "to-do", "to_do", "not-started", "not started":
		return StatusNotStarted
	case "in-progress", "in progress", "progress", "doing":
		return StatusInProgress
	case "done", "complete":
		return StatusCompleted
	default:
		return Status(value)
	}
}
