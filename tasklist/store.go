// Package tasklist holds the client-side task list: a store of fetched tasks
// narrowed by free-text search, and the filter/sort/paginate pipeline that
// turns the narrowed list into the rows a presentation renders.
package tasklist

import (
	"context"
	"errors"
	"strings"
	"sync"

	"task-manager/domain"
)

// Fetcher retrieves the full task collection.
type Fetcher interface {
	FetchTasks(ctx context.Context) ([]domain.Task, error)
}

// ErrSuperseded is returned by Load when a newer load was started before this
// one completed. Its response is discarded.
var ErrSuperseded = errors.New("tasklist: load superseded by a newer request")

// Store owns the fetched tasks and the search-narrowed subset. It is safe for
// concurrent use.
type Store struct {
	fetcher Fetcher

	mu       sync.Mutex
	seq      uint64
	tasks    []domain.Task
	filtered []domain.Task
	query    string
	loading  bool
	err      string
}

// Snapshot is a point-in-time copy of the store state. Slices are shared and
// must be treated as read-only.
type Snapshot struct {
	Tasks         []domain.Task
	FilteredTasks []domain.Task
	SearchQuery   string
	Loading       bool
	Error         string
}

// NewStore creates an empty store backed by fetcher.
func NewStore(fetcher Fetcher) *Store {
	return &Store{fetcher: fetcher}
}

// Load fetches the collection and replaces the store contents. The active
// search is re-applied to the new tasks. On failure the error message is
// recorded and the previous lists are kept.
func (s *Store) Load(ctx context.Context) error {
	seq := s.BeginLoad()
	tasks, err := s.fetcher.FetchTasks(ctx)
	if !s.CompleteLoad(seq, tasks, err) {
		return ErrSuperseded
	}
	return err
}

// BeginLoad marks a load as in flight and returns its sequence number. Callers
// that fetch on their own goroutine pass the number back to CompleteLoad.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = true
	s.err = ""
	return s.seq
}

// CompleteLoad applies the outcome of load seq. It returns false, leaving the
// store untouched, when a newer load has been started since.
func (s *Store) CompleteLoad(seq uint64, tasks []domain.Task, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return true
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	s.tasks = tasks
	s.filtered = searchTasks(tasks, s.query)
	return true
}

// Search narrows FilteredTasks to tasks whose title or description contains
// query, ignoring case. A query that is blank after trimming clears the search.
func (s *Store) Search(query string) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.filtered = searchTasks(s.tasks, query)
	return s.filtered
}

// DismissError clears the recorded load error.
func (s *Store) DismissError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Tasks:         s.tasks,
		FilteredTasks: s.filtered,
		SearchQuery:   s.query,
		Loading:       s.loading,
		Error:         s.err,
	}
}

func searchTasks(tasks []domain.Task, query string) []domain.Task {
	if strings.TrimSpace(query) == "" {
		return tasks
	}
	needle := strings.ToLower(query)
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}
