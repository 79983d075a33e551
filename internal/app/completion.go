package app

import "github.com/hylla/tavla/internal/domain"

// CompletionDetector decides when the board has just been finished.
// It remembers whether open work existed at the previous check and fires once
// when the board transitions to a non-empty, fully completed state.
type CompletionDetector struct {
	workInProgress bool
}

// Observe checks the board and reports whether the celebration should fire.
func (d *CompletionDetector) Observe(tasks []domain.Task) bool {
	progress := domain.ProgressOf(tasks)
	switch {
	case progress.Open() > 0:
		d.workInProgress = true
		return false
	case progress.Total == 0:
		// An empty board is a fresh start; a completed task added next is not a finish.
		d.workInProgress = false
		return false
	case d.workInProgress:
		d.workInProgress = false
		return true
	default:
		return false
	}
}

// WorkInProgress reports whether open work was present at the last check.
func (d *CompletionDetector) WorkInProgress() bool {
	return d.workInProgress
}

// Reset forgets previous observations.
func (d *CompletionDetector) Reset() {
	d.workInProgress = false
}
