package domain

import "fmt"

// Column identifies a sortable and displayable task field.
type Column string

const (
	ColumnTitle          Column = "title"
	ColumnDescription    Column = "description"
	ColumnAssignee       Column = "assignee"
	ColumnDueDate        Column = "due_date"
	ColumnStatus         Column = "status"
	ColumnPriority       Column = "priority"
	ColumnEstimatedHours Column = "estimated_hours"
	ColumnCompletionDate Column = "completion_date"
)

// AllColumns lists every column in default display order.
var AllColumns = []Column{
	ColumnTitle,
	ColumnDescription,
	ColumnAssignee,
	ColumnDueDate,
	ColumnStatus,
	ColumnPriority,
	ColumnEstimatedHours,
	ColumnCompletionDate,
}

var columnLabels = map[Column]string{
	ColumnTitle:          "Title",
	ColumnDescription:    "Description",
	ColumnAssignee:       "Assignee",
	ColumnDueDate:        "Due Date",
	ColumnStatus:         "Status",
	ColumnPriority:       "Priority",
	ColumnEstimatedHours: "Est. Hours",
	ColumnCompletionDate: "Completed On",
}

// Label is the human readable column heading.
func (c Column) Label() string {
	if l, ok := columnLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseColumn maps a wire name to a Column.
func ParseColumn(s string) (Column, error) {
	c := Column(s)
	if _, ok := columnLabels[c]; !ok {
		return "", fmt.Errorf("unknown column %q", s)
	}
	return c, nil
}

// Value returns the display string of the column for t.
func (c Column) Value(t Task) string {
	switch c {
	case ColumnTitle:
		return t.Title
	case ColumnDescription:
		return t.Description
	case ColumnAssignee:
		return t.Assignee
	case ColumnDueDate:
		return t.DueDate
	case ColumnStatus:
		return string(t.Status)
	case ColumnPriority:
		return string(t.Priority)
	case ColumnEstimatedHours:
		return fmt.Sprintf("%g", t.EstimatedHours)
	case ColumnCompletionDate:
		if t.CompletionDate == nil {
			return ""
		}
		return *t.CompletionDate
	}
	return ""
}

// SortDirection orders a sorted column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}
