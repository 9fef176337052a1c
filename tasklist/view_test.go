package tasklist

import (
	"slices"
	"testing"

	"task-manager/domain"
)

func TestViewLoadMoreScenario(t *testing.T) {
	v := NewView(domain.Settings{PageSize: 15})
	res := v.Update(SourceChanged{Tasks: numberedTasks(40)})
	if len(res.Displayed) != 15 || !res.HasMore {
		t.Fatalf("initial: displayed=%d hasMore=%t", len(res.Displayed), res.HasMore)
	}

	res = v.Update(LoadMore{})
	if len(res.Displayed) != 30 || !res.HasMore {
		t.Fatalf("after first load more: displayed=%d hasMore=%t", len(res.Displayed), res.HasMore)
	}

	res = v.Update(LoadMore{})
	if len(res.Displayed) != 40 || res.HasMore {
		t.Fatalf("after second load more: displayed=%d hasMore=%t", len(res.Displayed), res.HasMore)
	}

	res = v.Update(LoadMore{})
	if res.Page != 3 || len(res.Displayed) != 40 {
		t.Fatalf("load more after exhaustion must be a no-op, page=%d displayed=%d", res.Page, len(res.Displayed))
	}
}

func TestViewLoadMoreInFlightIsNoOp(t *testing.T) {
	v := NewView(domain.Settings{PageSize: 10})
	v.Update(SourceChanged{Tasks: numberedTasks(35)})

	v.Update(LoadMoreStarted{})
	if !v.LoadingMore() {
		t.Fatalf("expected load more in flight")
	}
	res := v.Update(LoadMore{})
	if res.Page != 1 {
		t.Fatalf("expected concurrent load more to be ignored, page=%d", res.Page)
	}
	v.Update(LoadMoreStarted{})

	res = v.Update(LoadMoreFinished{})
	if res.Page != 2 || len(res.Displayed) != 20 || v.LoadingMore() {
		t.Fatalf("unexpected state after finish: page=%d displayed=%d loading=%t", res.Page, len(res.Displayed), v.LoadingMore())
	}

	res = v.Update(LoadMoreFinished{})
	if res.Page != 2 {
		t.Fatalf("finish without start must be ignored, page=%d", res.Page)
	}
}

func TestViewLoadMoreStartedIgnoredWhenExhausted(t *testing.T) {
	v := NewView(domain.Settings{PageSize: 10})
	v.Update(SourceChanged{Tasks: numberedTasks(4)})
	v.Update(LoadMoreStarted{})
	if v.LoadingMore() {
		t.Fatalf("expected no load more when everything is displayed")
	}
}

func TestViewFilterAndSortResetPage(t *testing.T) {
	intents := map[string]Intent{
		"set filter":    SetFilter{Field: FilterStatus, Values: []string{"To Do"}},
		"toggle filter": ToggleFilterValue{Field: FilterPriority, Value: "high"},
		"sort by":       SortBy{Column: domain.ColumnTitle},
		"set sort":      SetSort{Column: domain.ColumnEstimatedHours, Direction: domain.SortDesc},
		"source":        SourceChanged{Tasks: numberedTasks(40)},
	}
	for name, in := range intents {
		t.Run(name, func(t *testing.T) {
			v := NewView(domain.Settings{PageSize: 5})
			v.Update(SourceChanged{Tasks: numberedTasks(40)})
			v.Update(LoadMore{})
			v.Update(LoadMore{})
			if v.Result().Page != 3 {
				t.Fatalf("setup: expected page 3, got %d", v.Result().Page)
			}
			if res := v.Update(in); res.Page != 1 {
				t.Fatalf("expected page reset to 1, got %d", res.Page)
			}
		})
	}
}

func TestViewResetFilters(t *testing.T) {
	v := NewView(domain.Settings{})
	v.Update(SourceChanged{Tasks: sampleTasks()})
	v.Update(SetFilter{Field: FilterAssignee, Values: []string{"Ana", "Ana"}})
	v.Update(SetFilter{Field: FilterStatus, Values: []string{"To Do"}})

	if got := v.ActiveFilterCount(); got != 2 {
		t.Fatalf("expected duplicates to collapse, count=%d", got)
	}
	if got := ids(v.Result().Processed); !slices.Equal(got, []string{"1"}) {
		t.Fatalf("unexpected filtered tasks: %v", got)
	}

	res := v.Update(ResetFilters{})
	if v.HasActiveFilters() {
		t.Fatalf("expected filters cleared")
	}
	if len(res.Processed) != 4 {
		t.Fatalf("expected all tasks after reset, got %d", len(res.Processed))
	}
}

func TestViewToggleFilterValue(t *testing.T) {
	v := NewView(domain.Settings{})
	v.Update(ToggleFilterValue{Field: FilterPriority, Value: "high"})
	v.Update(ToggleFilterValue{Field: FilterPriority, Value: "low"})
	if got := v.Selected(FilterPriority); !slices.Equal(got, []string{"high", "low"}) {
		t.Fatalf("unexpected selection: %v", got)
	}
	v.Update(ToggleFilterValue{Field: FilterPriority, Value: "high"})
	if got := v.Selected(FilterPriority); !slices.Equal(got, []string{"low"}) {
		t.Fatalf("unexpected selection after toggle off: %v", got)
	}
	v.Update(ToggleFilterValue{Field: FilterPriority, Value: "low"})
	if v.HasActiveFilters() {
		t.Fatalf("expected empty selection to drop the filter")
	}
}

func TestViewSortByTogglesDirection(t *testing.T) {
	v := NewView(domain.Settings{})
	v.Update(SourceChanged{Tasks: sampleTasks()})

	if col, dir := v.Sort(); col != domain.ColumnDueDate || dir != domain.SortAsc {
		t.Fatalf("unexpected default sort %s %s", col, dir)
	}

	v.Update(SortBy{Column: domain.ColumnEstimatedHours})
	if got := ids(v.Result().Displayed); !slices.Equal(got, []string{"4", "1", "3", "2"}) {
		t.Fatalf("unexpected ascending hours order: %v", got)
	}

	v.Update(SortBy{Column: domain.ColumnEstimatedHours})
	if _, dir := v.Sort(); dir != domain.SortDesc {
		t.Fatalf("expected second click to sort descending")
	}
	if got := ids(v.Result().Displayed); !slices.Equal(got, []string{"2", "3", "1", "4"}) {
		t.Fatalf("unexpected descending hours order: %v", got)
	}

	v.Update(SortBy{Column: domain.ColumnTitle})
	if col, dir := v.Sort(); col != domain.ColumnTitle || dir != domain.SortAsc {
		t.Fatalf("new column should start ascending, got %s %s", col, dir)
	}
}

func TestViewNoOpIntentsKeepPage(t *testing.T) {
	v := NewView(domain.Settings{PageSize: 5})
	v.Update(SourceChanged{Tasks: numberedTasks(20)})
	v.Update(LoadMore{})

	v.Update(ResetFilters{})
	v.Update(SetFilter{Field: FilterStatus})
	v.Update(SetSort{Column: DefaultSortBy, Direction: DefaultSortDirection})
	if page := v.Result().Page; page != 2 {
		t.Fatalf("unchanged inputs must not reset the page, got %d", page)
	}
}

func TestViewFilterConfigs(t *testing.T) {
	v := NewView(domain.Settings{})
	v.Update(SetFilter{Field: FilterStatus, Values: []string{"Completed"}})

	configs := v.FilterConfigs(sampleTasks())
	if len(configs) != 3 {
		t.Fatalf("expected 3 configs, got %d", len(configs))
	}
	assignee := configs[0]
	if assignee.ID != FilterAssignee || !slices.Equal(assignee.Options, []string{"Ana", "Ben", "Cy"}) {
		t.Fatalf("unexpected assignee config: %#v", assignee)
	}
	if assignee.Active() {
		t.Fatalf("assignee filter should be inactive")
	}
	status := configs[1]
	if status.Label != "Status" || !status.IsSelected("Completed") || status.IsSelected("To Do") {
		t.Fatalf("unexpected status config: %#v", status)
	}
	if !slices.Equal(configs[2].Options, domain.PriorityOptions) {
		t.Fatalf("unexpected priority options: %v", configs[2].Options)
	}
}

func TestViewSettingsDefaults(t *testing.T) {
	v := NewView(domain.Settings{SortBy: domain.ColumnPriority, SortDirection: domain.SortDesc, PageSize: 2})
	res := v.Update(SourceChanged{Tasks: sampleTasks()})
	if res.PageSize != 2 || len(res.Displayed) != 2 {
		t.Fatalf("unexpected page size: %d displayed=%d", res.PageSize, len(res.Displayed))
	}
	if col, dir := v.Sort(); col != domain.ColumnPriority || dir != domain.SortDesc {
		t.Fatalf("unexpected sort from settings: %s %s", col, dir)
	}
}

func TestViewWithStoreSearch(t *testing.T) {
	store := NewStore(fixedFetcher(searchFixture()))
	v := NewView(domain.Settings{})
	if err := store.Load(t.Context()); err != nil {
		t.Fatalf("load: %v", err)
	}
	v.Update(SourceChanged{Tasks: store.Snapshot().FilteredTasks})
	res := v.Update(SourceChanged{Tasks: store.Search("foo")})
	if len(res.Processed) != 2 {
		t.Fatalf("expected search to narrow the pipeline input, got %d", len(res.Processed))
	}
	res = v.Update(SourceChanged{Tasks: store.Search("missing")})
	if got := res.Outcome(len(store.Snapshot().Tasks)); got != OutcomeNoMatches {
		t.Fatalf("expected no matches outcome, got %v", got)
	}
}
