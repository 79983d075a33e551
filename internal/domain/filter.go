package domain

import "strings"

// Filter narrows a task list by status and label. Zero values mean "all".
type Filter struct {
	Status Status
	Label  string
}

// ParseFilter builds a filter from raw values, treating "" and "all" as unset.
func ParseFilter(status, label string) (Filter, error) {
	var f Filter
	status = strings.TrimSpace(status)
	if status != "" && !strings.EqualFold(status, "all") {
		parsed, err := ParseStatus(status)
		if err != nil {
			return Filter{}, err
		}
		f.Status = parsed
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if label != "all" {
		f.Label = label
	}
	return f, nil
}

// IsZero reports whether the filter matches every task.
func (f Filter) IsZero() bool {
	return f.Status == "" && f.Label == ""
}

// Matches reports whether task satisfies both filter axes.
func (f Filter) Matches(task Task) bool {
	if f.Status != "" && task.Status != f.Status {
		return false
	}
	if f.Label != "" && !task.HasLabel(f.Label) {
		return false
	}
	return true
}

// FilterTasks returns the tasks matching f, preserving order.
func FilterTasks(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task) {
			out = append(out, task)
		}
	}
	return out
}

// TasksWithStatus returns the tasks in a single column, preserving order.
func TasksWithStatus(tasks []Task, status Status) []Task {
	return FilterTasks(tasks, Filter{Status: status})
}

// Labels returns the sorted set of labels used across tasks.
func Labels(tasks []Task) []string {
	var all []string
	for _, task := range tasks {
		all = append(all, task.Labels...)
	}
	return normalizeLabels(all)
}
