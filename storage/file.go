package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"task-manager/domain"
)

// ErrMalformed is wrapped by a SourceError when the file is not a JSON task array.
var ErrMalformed = errors.New("malformed task file")

// FileStore serves tasks from a JSON file holding an array of tasks.
// The file is re-read on every call, so external edits are picked up.
type FileStore struct {
	path   string
	logger log.FieldLogger
}

// NewFileStore returns a FileStore for path. A nil logger disables
// validation warnings.
func NewFileStore(path string, logger log.FieldLogger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Source identifies the file for cache keys.
func (f *FileStore) Source() string { return "file:" + f.path }

// FetchTasks returns the tasks in file order.
func (f *FileStore) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &SourceError{Source: f.path, Err: err}
	}
	tasks, err := decodeTasks(data)
	if err != nil {
		return nil, &SourceError{Source: f.path, Err: err}
	}
	if f.logger != nil {
		for _, t := range tasks {
			if err := t.Validate(); err != nil {
				f.logger.WithField("file", f.path).WithError(err).Warn("task violates invariants")
			}
		}
	}
	return tasks, nil
}

func decodeTasks(data []byte) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if tasks == nil {
		// "null" decodes without error but is not an array.
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformed)
	}
	return tasks, nil
}
