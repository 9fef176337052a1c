package tasklist

import (
	"slices"

	"task-manager/domain"
)

// View is the per-table view state. All changes go through Update, which
// recomputes the pipeline whenever one of its inputs changed.
type View struct {
	source      []domain.Task
	filters     map[FilterField][]string
	sortBy      domain.Column
	direction   domain.SortDirection
	page        int
	pageSize    int
	loadingMore bool

	result Result
}

// NewView creates a view on page 1 using settings, falling back to the
// defaults for zero values.
func NewView(settings domain.Settings) *View {
	v := &View{
		filters:   make(map[FilterField][]string),
		sortBy:    DefaultSortBy,
		direction: DefaultSortDirection,
		page:      1,
		pageSize:  DefaultPageSize,
	}
	if settings.PageSize > 0 {
		v.pageSize = settings.PageSize
	}
	if settings.SortBy != "" {
		v.sortBy = settings.SortBy
	}
	if settings.SortDirection != "" {
		v.direction = settings.SortDirection
	}
	v.recompute()
	return v
}

// Intent is a user or data event fed into View.Update.
type Intent interface {
	// reduce applies the intent and reports whether the pipeline must rerun.
	reduce(v *View) bool
}

// Update applies in and returns the current result.
func (v *View) Update(in Intent) Result {
	if in.reduce(v) {
		v.recompute()
	}
	return v.result
}

// Result returns the last computed result.
func (v *View) Result() Result { return v.result }

// Query returns the pipeline input derived from the view state.
func (v *View) Query() Query {
	return Query{
		Assignees:  v.filters[FilterAssignee],
		Statuses:   v.filters[FilterStatus],
		Priorities: v.filters[FilterPriority],
		SortBy:     v.sortBy,
		Direction:  v.direction,
		Page:       v.page,
		PageSize:   v.pageSize,
	}
}

// Sort returns the active sort column and direction.
func (v *View) Sort() (domain.Column, domain.SortDirection) {
	return v.sortBy, v.direction
}

// LoadingMore reports whether a load-more is in flight.
func (v *View) LoadingMore() bool { return v.loadingMore }

// Selected returns the selected values of field.
func (v *View) Selected(field FilterField) []string {
	return v.filters[field]
}

// HasActiveFilters reports whether any filter constrains the list.
func (v *View) HasActiveFilters() bool {
	return v.ActiveFilterCount() > 0
}

// ActiveFilterCount is the total number of selected filter values.
func (v *View) ActiveFilterCount() int {
	n := 0
	for _, values := range v.filters {
		n += len(values)
	}
	return n
}

// FilterConfigs describes every filter. Assignee options come from tasks,
// which should be the unfiltered collection.
func (v *View) FilterConfigs(tasks []domain.Task) []FilterConfig {
	out := make([]FilterConfig, 0, len(FilterFields))
	for _, f := range FilterFields {
		out = append(out, FilterConfig{
			ID:             f,
			Label:          f.Label(),
			Options:        optionsFor(f, tasks),
			SelectedValues: slices.Clone(v.filters[f]),
		})
	}
	return out
}

func (v *View) recompute() {
	v.result = Process(v.source, v.Query())
}

// SourceChanged replaces the tasks the pipeline runs on, typically the
// store's search-narrowed list. The view returns to page 1.
type SourceChanged struct {
	Tasks []domain.Task
}

func (i SourceChanged) reduce(v *View) bool {
	v.source = i.Tasks
	v.page = 1
	v.loadingMore = false
	return true
}

// SetFilter replaces the selected values of one filter. An empty list
// removes the constraint.
type SetFilter struct {
	Field  FilterField
	Values []string
}

func (i SetFilter) reduce(v *View) bool {
	values := dedupe(i.Values)
	if slices.Equal(values, v.filters[i.Field]) {
		return false
	}
	if len(values) == 0 {
		delete(v.filters, i.Field)
	} else {
		v.filters[i.Field] = values
	}
	v.page = 1
	return true
}

// ToggleFilterValue adds value to a filter, or removes it if present.
type ToggleFilterValue struct {
	Field FilterField
	Value string
}

func (i ToggleFilterValue) reduce(v *View) bool {
	current := v.filters[i.Field]
	next := make([]string, 0, len(current)+1)
	found := false
	for _, s := range current {
		if s == i.Value {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, i.Value)
	}
	return SetFilter{Field: i.Field, Values: next}.reduce(v)
}

// ResetFilters clears every filter.
type ResetFilters struct{}

func (ResetFilters) reduce(v *View) bool {
	if len(v.filters) == 0 {
		return false
	}
	clear(v.filters)
	v.page = 1
	return true
}

// SortBy is a click on a column heading: the active column flips direction,
// any other column becomes active ascending.
type SortBy struct {
	Column domain.Column
}

func (i SortBy) reduce(v *View) bool {
	if i.Column == v.sortBy {
		v.direction = v.direction.Toggle()
	} else {
		v.sortBy = i.Column
		v.direction = domain.SortAsc
	}
	v.page = 1
	return true
}

// SetSort sets column and direction explicitly.
type SetSort struct {
	Column    domain.Column
	Direction domain.SortDirection
}

func (i SetSort) reduce(v *View) bool {
	if i.Column == v.sortBy && i.Direction == v.direction {
		return false
	}
	v.sortBy = i.Column
	v.direction = i.Direction
	v.page = 1
	return true
}

// LoadMore reveals the next page. It does nothing while a load-more is in
// flight or when everything is displayed.
type LoadMore struct{}

func (LoadMore) reduce(v *View) bool {
	if v.loadingMore || !v.result.HasMore {
		return false
	}
	v.page++
	return true
}

// LoadMoreStarted marks a load-more as in flight, for presentations that
// show progress before revealing rows. Ignored when nothing remains.
type LoadMoreStarted struct{}

func (LoadMoreStarted) reduce(v *View) bool {
	if v.loadingMore || !v.result.HasMore {
		return false
	}
	v.loadingMore = true
	return false
}

// LoadMoreFinished completes an in-flight load-more by revealing the next
// page.
type LoadMoreFinished struct{}

func (LoadMoreFinished) reduce(v *View) bool {
	if !v.loadingMore {
		return false
	}
	v.loadingMore = false
	return LoadMore{}.reduce(v)
}
