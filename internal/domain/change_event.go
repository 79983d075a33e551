package domain

import "time"

// ChangeOperation describes a recorded board operation.
type ChangeOperation string

// ChangeOperation values used by the local activity log.
const (
	ChangeOperationCreate ChangeOperation = "create"
	ChangeOperationMove   ChangeOperation = "move"
	ChangeOperationDelete ChangeOperation = "delete"
	ChangeOperationImport ChangeOperation = "import"
)

// ChangeEvent represents a single activity-log entry.
type ChangeEvent struct {
	ID         int64
	TaskID     string
	Operation  ChangeOperation
	Metadata   map[string]string
	OccurredAt time.Time
}
