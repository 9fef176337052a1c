package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"task-manager/domain"
	"task-manager/tasklist"
)

type loggingFetcher struct {
	api    tasklist.Fetcher
	logger log.FieldLogger
}

func (f loggingFetcher) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	start := time.Now()
	tasks, err := f.api.FetchTasks(ctx)
	entry := f.logger.WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		entry.WithError(err).Warn("fetch tasks failed")
		return nil, err
	}
	entry.WithField("tasks", len(tasks)).Debug("fetched tasks")
	return tasks, nil
}
