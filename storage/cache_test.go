package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"task-manager/domain"
)

type stubBackend struct {
	fetchTasksFn func(ctx context.Context) ([]domain.Task, error)
	calls        int
}

func (s *stubBackend) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	s.calls++
	if s.fetchTasksFn == nil {
		return nil, errors.New("unexpected FetchTasks call")
	}
	return s.fetchTasksFn(ctx)
}

func (s *stubBackend) Source() string { return "stub" }

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheFetchTasksMissThenHit(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	expected := []domain.Task{{ID: "t1", Title: "Write code", Status: domain.StatusToDo, Priority: domain.PriorityHigh}}

	base := &stubBackend{fetchTasksFn: func(context.Context) ([]domain.Task, error) {
		return append([]domain.Task(nil), expected...), nil
	}}
	cache := NewCache(base, client, time.Minute)

	tasks, err := cache.FetchTasks(ctx)
	if err != nil {
		t.Fatalf("fetch tasks: %v", err)
	}
	if !reflect.DeepEqual(tasks, expected) {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
	if base.calls != 1 {
		t.Fatalf("expected 1 call to backend, got %d", base.calls)
	}
	if ttl := mr.TTL(tasksCacheKey("stub")); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	cached, err := cache.FetchTasks(ctx)
	if err != nil {
		t.Fatalf("fetch cached tasks: %v", err)
	}
	if !reflect.DeepEqual(cached, expected) {
		t.Fatalf("unexpected cached tasks: %#v", cached)
	}
	if base.calls != 1 {
		t.Fatalf("expected cached fetch to avoid backend, calls=%d", base.calls)
	}
}

func TestCacheBackendErrorIsNotCached(t *testing.T) {
	mr, client := newRedis(t)
	boom := &SourceError{Source: "stub", Err: errors.New("gone")}
	cache := NewCache(&stubBackend{fetchTasksFn: func(context.Context) ([]domain.Task, error) {
		return nil, boom
	}}, client, time.Minute)

	_, err := cache.FetchTasks(context.Background())
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected source error, got %v", err)
	}
	if mr.Exists(tasksCacheKey("stub")) {
		t.Fatalf("failed fetch must not populate the cache")
	}
}

func TestCacheZeroTTLDoesNotStore(t *testing.T) {
	mr, client := newRedis(t)
	base := &stubBackend{fetchTasksFn: func(context.Context) ([]domain.Task, error) {
		return []domain.Task{{ID: "a"}}, nil
	}}
	cache := NewCache(base, client, -time.Second)

	for i := 0; i < 2; i++ {
		if _, err := cache.FetchTasks(context.Background()); err != nil {
			t.Fatalf("fetch: %v", err)
		}
	}
	if mr.Exists(tasksCacheKey("stub")) {
		t.Fatalf("expected nothing cached with zero TTL")
	}
	if base.calls != 2 {
		t.Fatalf("expected every fetch to reach the backend, got %d", base.calls)
	}
}

func TestCacheDropsCorruptEntry(t *testing.T) {
	mr, client := newRedis(t)
	if err := mr.Set(tasksCacheKey("stub"), "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	base := &stubBackend{fetchTasksFn: func(context.Context) ([]domain.Task, error) {
		return []domain.Task{{ID: "fresh"}}, nil
	}}
	cache := NewCache(base, client, time.Minute)

	tasks, err := cache.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "fresh" || base.calls != 1 {
		t.Fatalf("expected corrupt entry to fall through to backend, got %#v", tasks)
	}
	got, err := mr.Get(tasksCacheKey("stub"))
	if err != nil || got == "{not json" {
		t.Fatalf("expected corrupt entry to be replaced, got %q (%v)", got, err)
	}
}

func TestCacheToleratesRedisFailure(t *testing.T) {
	mr, client := newRedis(t)
	base := &stubBackend{fetchTasksFn: func(context.Context) ([]domain.Task, error) {
		return []domain.Task{{ID: "a"}, {ID: "b"}}, nil
	}}
	cache := NewCache(base, client, time.Minute)
	mr.Close()

	tasks, err := cache.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("expected redis outage to be tolerated, got %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
}

func TestCacheWithoutClientPassesThrough(t *testing.T) {
	base := &stubBackend{fetchTasksFn: func(context.Context) ([]domain.Task, error) {
		return []domain.Task{}, nil
	}}
	cache := NewCache(base, nil, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := cache.FetchTasks(context.Background()); err != nil {
			t.Fatalf("fetch: %v", err)
		}
	}
	if base.calls != 2 {
		t.Fatalf("expected pass-through, got %d calls", base.calls)
	}
	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate without client: %v", err)
	}
}

func TestCacheInvalidate(t *testing.T) {
	mr, client := newRedis(t)
	base := &stubBackend{fetchTasksFn: func(context.Context) ([]domain.Task, error) {
		return []domain.Task{{ID: "a"}}, nil
	}}
	cache := NewCache(base, client, time.Minute)
	if _, err := cache.FetchTasks(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists(tasksCacheKey("stub")) {
		t.Fatalf("expected key to be evicted")
	}
	if _, err := cache.FetchTasks(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d calls", base.calls)
	}
}
