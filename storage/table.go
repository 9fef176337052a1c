package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"

	"task-manager/domain"
)

// TableStore serves tasks from an Azure Table. Each entity is one task,
// keyed by RowKey.
type TableStore struct {
	name  string
	table *aztables.Client
}

// NewTableStore creates a TableStore from the given connection string.
func NewTableStore(connStr, table string) (*TableStore, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: 15 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	return newTableStore(connStr, table, &opts)
}

func newTableStore(connStr, table string, opts *aztables.ClientOptions) (*TableStore, error) {
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, opts)
	if err != nil {
		return nil, err
	}
	return &TableStore{name: table, table: svc.NewClient(table)}, nil
}

// TaskPartition is the PartitionKey written by PutTasks.
const TaskPartition = "tasks"

// Source identifies the table for cache keys.
func (s *TableStore) Source() string { return "table:" + s.name }

type taskEntity struct {
	aztables.Entity
	Title          string  `json:"Title"`
	Description    string  `json:"Description"`
	Assignee       string  `json:"Assignee"`
	Status         string  `json:"Status"`
	Priority       string  `json:"Priority"`
	DueDate        string  `json:"DueDate"`
	CompletionDate string  `json:"CompletionDate"`
	EstimatedHours float64 `json:"EstimatedHours"`
	Completed      bool    `json:"Completed"`
	CreatedAt      string  `json:"CreatedAt"`
}

func decodeTaskEntity(data []byte) (domain.Task, error) {
	var ent taskEntity
	if err := sonic.Unmarshal(data, &ent); err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{
		ID:             ent.RowKey,
		Title:          ent.Title,
		Description:    ent.Description,
		Assignee:       ent.Assignee,
		Status:         domain.Status(ent.Status),
		Priority:       domain.Priority(ent.Priority),
		DueDate:        ent.DueDate,
		EstimatedHours: ent.EstimatedHours,
		Completed:      ent.Completed,
		CreatedAt:      ent.CreatedAt,
	}
	if ent.CompletionDate != "" {
		cd := ent.CompletionDate
		t.CompletionDate = &cd
	}
	return t, nil
}

func encodeTaskEntity(t domain.Task) ([]byte, error) {
	ent := taskEntity{
		Entity:         aztables.Entity{PartitionKey: TaskPartition, RowKey: t.ID},
		Title:          t.Title,
		Description:    t.Description,
		Assignee:       t.Assignee,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		Completed:      t.Completed,
		CreatedAt:      t.CreatedAt,
	}
	if t.CompletionDate != nil {
		ent.CompletionDate = *t.CompletionDate
	}
	return sonic.Marshal(ent)
}

// EnsureTable creates the table if it does not exist yet.
func (s *TableStore) EnsureTable(ctx context.Context) error {
	_, err := s.table.CreateTable(ctx, nil)
	if err == nil {
		return nil
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists) {
		return nil
	}
	return &SourceError{Source: s.name, Err: err}
}

// PutTasks upserts tasks, replacing any entity with the same ID.
func (s *TableStore) PutTasks(ctx context.Context, tasks []domain.Task) error {
	for _, t := range tasks {
		if t.ID == "" {
			return &SourceError{Source: s.name, Err: errors.New("task without id")}
		}
		data, err := encodeTaskEntity(t)
		if err != nil {
			return &SourceError{Source: s.name, Err: err}
		}
		if _, err := s.table.UpsertEntity(ctx, data, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace}); err != nil {
			return &SourceError{Source: s.name, Err: fmt.Errorf("upsert %s: %w", t.ID, err)}
		}
	}
	return nil
}

// FetchTasks lists every entity of the table ordered by RowKey.
func (s *TableStore) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	pager := s.table.NewListEntitiesPager(nil)
	tasks := []domain.Task{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, &SourceError{Source: s.name, Err: err}
		}
		for _, e := range resp.Entities {
			t, err := decodeTaskEntity(e)
			if err != nil {
				return nil, &SourceError{Source: s.name, Err: err}
			}
			tasks = append(tasks, t)
		}
	}
	// Entities come back grouped by partition; order across partitions by RowKey.
	slices.SortStableFunc(tasks, func(a, b domain.Task) int { return strings.Compare(a.ID, b.ID) })
	return tasks, nil
}
