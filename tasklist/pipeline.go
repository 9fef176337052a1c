package tasklist

import (
	"cmp"
	"slices"
	"strings"

	"task-manager/domain"
)

// DefaultPageSize is the number of rows revealed per page.
const DefaultPageSize = 15

// Default sort applied by new views.
const (
	DefaultSortBy        = domain.ColumnDueDate
	DefaultSortDirection = domain.SortAsc
)

// Query is the full input of the pipeline besides the tasks themselves.
type Query struct {
	Assignees  []string
	Statuses   []string
	Priorities []string
	SortBy     domain.Column
	Direction  domain.SortDirection
	Page       int
	PageSize   int
}

// Result is the pipeline output.
type Result struct {
	// Processed is the full filtered and sorted sequence.
	Processed []domain.Task
	// Displayed is the prefix of Processed revealed by the current page.
	Displayed []domain.Task
	HasMore   bool
	Page      int
	PageSize  int
}

// Outcome classifies what a table should render for a result.
type Outcome int

const (
	OutcomeRows Outcome = iota
	// OutcomeEmpty means there is no data at all.
	OutcomeEmpty
	// OutcomeNoMatches means data exists but search or filters exclude it.
	OutcomeNoMatches
)

// Outcome reports how r should be rendered given the size of the unfiltered
// collection.
func (r Result) Outcome(totalTasks int) Outcome {
	switch {
	case totalTasks == 0:
		return OutcomeEmpty
	case len(r.Processed) == 0:
		return OutcomeNoMatches
	default:
		return OutcomeRows
	}
}

// Process filters, sorts and paginates tasks. tasks is not modified.
func Process(tasks []domain.Task, q Query) Result {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	processed := Filter(tasks, q.Assignees, q.Statuses, q.Priorities)
	processed = Sort(processed, q.SortBy, q.Direction)
	displayed, hasMore := Paginate(processed, q.Page, q.PageSize)
	return Result{
		Processed: processed,
		Displayed: displayed,
		HasMore:   hasMore,
		Page:      q.Page,
		PageSize:  q.PageSize,
	}
}

// Filter keeps tasks matching every non-empty filter set. An empty set does
// not constrain its field. The result is always a fresh slice.
func Filter(tasks []domain.Task, assignees, statuses, priorities []string) []domain.Task {
	as, ss, ps := toSet(assignees), toSet(statuses), toSet(priorities)
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matches(as, t.Assignee) || !matches(ss, string(t.Status)) || !matches(ps, string(t.Priority)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func matches(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

// Sort returns a stably sorted copy of tasks ordered by col. Ties keep their
// input order in both directions.
func Sort(tasks []domain.Task, col domain.Column, dir domain.SortDirection) []domain.Task {
	out := slices.Clone(tasks)
	compare := Comparator(col)
	if dir == domain.SortDesc {
		slices.SortStableFunc(out, func(a, b domain.Task) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// Comparator returns the ascending comparison for col. Dates compare as
// timestamps with unparseable dates first, hours numerically, and everything
// else as case-insensitive text.
func Comparator(col domain.Column) func(a, b domain.Task) int {
	switch col {
	case domain.ColumnDueDate:
		return func(a, b domain.Task) int {
			return compareDates(a.DueDate, b.DueDate)
		}
	case domain.ColumnCompletionDate:
		return func(a, b domain.Task) int {
			return compareDates(deref(a.CompletionDate), deref(b.CompletionDate))
		}
	case domain.ColumnEstimatedHours:
		return func(a, b domain.Task) int {
			return cmp.Compare(a.EstimatedHours, b.EstimatedHours)
		}
	}
	return func(a, b domain.Task) int {
		return strings.Compare(strings.ToLower(col.Value(a)), strings.ToLower(col.Value(b)))
	}
}

func compareDates(a, b string) int {
	ta, okA := domain.ParseDate(a)
	tb, okB := domain.ParseDate(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	return ta.Compare(tb)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Paginate returns the first page*pageSize tasks and whether more remain.
func Paginate(processed []domain.Task, page, pageSize int) ([]domain.Task, bool) {
	n := page * pageSize
	if n >= len(processed) {
		return processed, false
	}
	return processed[:n], true
}
