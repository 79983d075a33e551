package domain

// Progress summarizes task counts per status.
type Progress struct {
	Total      int
	NotStarted int
	InProgress int
	Completed  int
}

// ProgressOf counts tasks by status.
func ProgressOf(tasks []Task) Progress {
	var p Progress
	for _, task := range tasks {
		p.Total++
		switch task.Status {
		case StatusNotStarted:
			p.NotStarted++
		case StatusInProgress:
			p.InProgress++
		case StatusCompleted:
			p.Completed++
		}
	}
	return p
}

// Percent returns the completed share rounded down, 0 for an empty board.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// Open returns the number of non-terminal tasks.
func (p Progress) Open() int {
	return p.NotStarted + p.InProgress
}

// Count returns the number of tasks in status.
func (p Progress) Count(status Status) int {
	switch status {
	case StatusNotStarted:
		return p.NotStarted
	case StatusInProgress:
		return p.InProgress
	case StatusCompleted:
		return p.Completed
	default:
		return 0
	}
}
