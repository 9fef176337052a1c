package tasklist

import (
	"context"
	"errors"
	"slices"
	"testing"

	"task-manager/domain"
)

type stubFetcher struct {
	fetchFn func(ctx context.Context) ([]domain.Task, error)
	calls   int
}

func (s *stubFetcher) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	s.calls++
	if s.fetchFn == nil {
		return nil, errors.New("unexpected FetchTasks call")
	}
	return s.fetchFn(ctx)
}

func fixedFetcher(tasks []domain.Task) *stubFetcher {
	return &stubFetcher{fetchFn: func(context.Context) ([]domain.Task, error) {
		return tasks, nil
	}}
}

func searchFixture() []domain.Task {
	return []domain.Task{
		{ID: "1", Title: "Foobar", Description: "first"},
		{ID: "2", Title: "Other", Description: "mentions FOO in passing"},
		{ID: "3", Title: "Unrelated", Description: "nothing here"},
	}
}

func TestStoreLoadPopulatesBothLists(t *testing.T) {
	store := NewStore(fixedFetcher(searchFixture()))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Tasks) != 3 || len(snap.FilteredTasks) != 3 {
		t.Fatalf("unexpected lists: %d tasks, %d filtered", len(snap.Tasks), len(snap.FilteredTasks))
	}
	if snap.Loading || snap.Error != "" {
		t.Fatalf("unexpected state: loading=%t error=%q", snap.Loading, snap.Error)
	}
}

func TestStoreLoadFailureKeepsPreviousLists(t *testing.T) {
	fetcher := fixedFetcher(searchFixture())
	store := NewStore(fetcher)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}

	boom := errors.New("connection refused")
	fetcher.fetchFn = func(context.Context) ([]domain.Task, error) { return nil, boom }
	if err := store.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	snap := store.Snapshot()
	if snap.Error != boom.Error() {
		t.Fatalf("expected error to be recorded, got %q", snap.Error)
	}
	if snap.Loading {
		t.Fatalf("expected loading to be cleared")
	}
	if len(snap.Tasks) != 3 {
		t.Fatalf("expected previous tasks to survive, got %d", len(snap.Tasks))
	}

	store.DismissError()
	if store.Snapshot().Error != "" {
		t.Fatalf("expected error to be dismissed")
	}
}

func TestStoreFirstLoadFailureLeavesListsEmpty(t *testing.T) {
	store := NewStore(&stubFetcher{fetchFn: func(context.Context) ([]domain.Task, error) {
		return nil, errors.New("bad gateway")
	}})
	if err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	snap := store.Snapshot()
	if len(snap.Tasks) != 0 || len(snap.FilteredTasks) != 0 {
		t.Fatalf("expected empty lists, got %d/%d", len(snap.Tasks), len(snap.FilteredTasks))
	}
}

func TestStoreEachLoadRefetches(t *testing.T) {
	fetcher := fixedFetcher(searchFixture())
	store := NewStore(fetcher)
	for i := 0; i < 3; i++ {
		if err := store.Load(context.Background()); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if fetcher.calls != 3 {
		t.Fatalf("expected 3 fetches, got %d", fetcher.calls)
	}
}

func TestStoreSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "case insensitive title", query: "foo", want: []string{"1", "2"}},
		{name: "description match", query: "NOTHING", want: []string{"3"}},
		{name: "whitespace is empty", query: "   ", want: []string{"1", "2", "3"}},
		{name: "empty", query: "", want: []string{"1", "2", "3"}},
		{name: "no match", query: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(fixedFetcher(searchFixture()))
			if err := store.Load(context.Background()); err != nil {
				t.Fatalf("load: %v", err)
			}
			got := store.Search(tt.query)
			if !slices.Equal(ids(got), tt.want) {
				t.Fatalf("search %q = %v, want %v", tt.query, ids(got), tt.want)
			}
		})
	}
}

func TestStoreSearchIsIdempotent(t *testing.T) {
	store := NewStore(fixedFetcher(searchFixture()))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	first := ids(store.Search("foo"))
	second := ids(store.Search("foo"))
	if !slices.Equal(first, second) {
		t.Fatalf("repeated search differs: %v vs %v", first, second)
	}
	if len(store.Snapshot().Tasks) != 3 {
		t.Fatalf("search must not narrow the source list")
	}
}

func TestStoreLoadReappliesActiveSearch(t *testing.T) {
	fetcher := fixedFetcher(searchFixture())
	store := NewStore(fetcher)
	store.Search("foo")
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := store.Snapshot()
	if snap.SearchQuery != "foo" {
		t.Fatalf("expected query to survive load, got %q", snap.SearchQuery)
	}
	if !slices.Equal(ids(snap.FilteredTasks), []string{"1", "2"}) {
		t.Fatalf("expected search applied to fresh tasks, got %v", ids(snap.FilteredTasks))
	}
}

func TestStoreDiscardsSupersededResponse(t *testing.T) {
	store := NewStore(nil)
	older := store.BeginLoad()
	newer := store.BeginLoad()

	if store.CompleteLoad(older, searchFixture()[:1], nil) {
		t.Fatalf("expected stale response to be rejected")
	}
	if !store.Snapshot().Loading {
		t.Fatalf("expected newer load to still be in flight")
	}
	if !store.CompleteLoad(newer, searchFixture(), nil) {
		t.Fatalf("expected latest response to apply")
	}
	if got := len(store.Snapshot().Tasks); got != 3 {
		t.Fatalf("expected latest tasks, got %d", got)
	}
}

func TestStoreConcurrentLoadsLatestWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	slow := &stubFetcher{fetchFn: func(context.Context) ([]domain.Task, error) {
		close(started)
		<-release
		return searchFixture()[:1], nil
	}}
	store := NewStore(slow)

	errCh := make(chan error, 1)
	go func() { errCh <- store.Load(context.Background()) }()
	<-started

	slow.fetchFn = func(context.Context) ([]domain.Task, error) { return searchFixture(), nil }
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	close(release)

	if err := <-errCh; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected superseded error, got %v", err)
	}
	if got := len(store.Snapshot().Tasks); got != 3 {
		t.Fatalf("expected newest response to win, got %d tasks", got)
	}
}
