package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound            = errors.New("not found")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrActivityUnavailable = errors.New("activity log unavailable")
	ErrDuplicateTaskID     = errors.New("duplicate task id")
	ErrAnchorOtherColumn   = errors.New("insert-before task is in another column")
)
