package tasklist

import "task-manager/domain"

// FilterField names a filterable task dimension.
type FilterField string

const (
	FilterAssignee FilterField = "assignee"
	FilterStatus   FilterField = "status"
	FilterPriority FilterField = "priority"
)

// FilterFields lists the dimensions in presentation order.
var FilterFields = []FilterField{FilterAssignee, FilterStatus, FilterPriority}

// Label is the heading shown for the filter.
func (f FilterField) Label() string {
	switch f {
	case FilterAssignee:
		return "Assignee"
	case FilterStatus:
		return "Status"
	case FilterPriority:
		return "Priority"
	}
	return string(f)
}

// FilterConfig describes one multi-select filter: what can be chosen and
// what currently is.
type FilterConfig struct {
	ID             FilterField
	Label          string
	Options        []string
	SelectedValues []string
}

// Active reports whether the filter constrains its field.
func (c FilterConfig) Active() bool {
	return len(c.SelectedValues) > 0
}

// IsSelected reports whether option is among the selected values.
func (c FilterConfig) IsSelected(option string) bool {
	for _, v := range c.SelectedValues {
		if v == option {
			return true
		}
	}
	return false
}

// Assignees returns the distinct assignees of tasks in first-seen order.
func Assignees(tasks []domain.Task) []string {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]string, 0)
	for _, t := range tasks {
		if _, ok := seen[t.Assignee]; ok {
			continue
		}
		seen[t.Assignee] = struct{}{}
		out = append(out, t.Assignee)
	}
	return out
}

func optionsFor(field FilterField, tasks []domain.Task) []string {
	switch field {
	case FilterAssignee:
		return Assignees(tasks)
	case FilterStatus:
		return domain.StatusOptions
	case FilterPriority:
		return domain.PriorityOptions
	}
	return nil
}

// dedupe drops repeated values, keeping first occurrences in order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
