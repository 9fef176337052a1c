// Package storage provides the read-only task backends served by the API.
package storage

import (
	"context"
	"fmt"

	"task-manager/domain"
)

// Backend is a read-only source of the task collection.
type Backend interface {
	FetchTasks(ctx context.Context) ([]domain.Task, error)
}

// SourceError reports that the backing source could not be read or decoded.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("read tasks from %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// sourceName returns the identifier used for cache keys and log fields.
func sourceName(b Backend) string {
	if n, ok := b.(interface{ Source() string }); ok {
		return n.Source()
	}
	return "default"
}
