package domain

import (
	"math"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func strPtr(s string) *string { return &s }

func TestTaskMarshalKeepsNullCompletionDate(t *testing.T) {
	task := Task{ID: "t1", Title: "Title", Status: StatusToDo, Priority: PriorityLow}

	payload, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}

	if !strings.Contains(string(payload), "\"completion_date\":null") {
		t.Fatalf("expected completion_date to be null, got %s", payload)
	}
	if !strings.Contains(string(payload), "\"estimated_hours\":0") {
		t.Fatalf("expected estimated_hours field to be present, got %s", payload)
	}
}

func TestTaskUnmarshalWireFormat(t *testing.T) {
	data := `{"id":"7","title":"Ship","description":"d","assignee":"Ana","status":"Completed",
		"priority":"high","due_date":"2025-03-01","completion_date":"2025-02-27T10:00:00Z",
		"estimated_hours":6.5,"completed":true,"createdAt":"2025-01-01"}`

	var task Task
	if err := sonic.UnmarshalString(data, &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.Status != StatusCompleted || task.Priority != PriorityHigh {
		t.Fatalf("unexpected enums: %q %q", task.Status, task.Priority)
	}
	if task.CompletionDate == nil || *task.CompletionDate != "2025-02-27T10:00:00Z" {
		t.Fatalf("unexpected completion date: %v", task.CompletionDate)
	}
	if task.EstimatedHours != 6.5 {
		t.Fatalf("unexpected hours: %v", task.EstimatedHours)
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got %v", err)
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr string
	}{
		{
			name: "valid open task",
			task: Task{ID: "1", Status: StatusInProgress, Priority: PriorityMedium},
		},
		{
			name: "valid completed task",
			task: Task{ID: "1", Status: StatusCompleted, Priority: PriorityMedium, Completed: true, CompletionDate: strPtr("2025-01-01")},
		},
		{
			name:    "completed flag without status",
			task:    Task{ID: "1", Status: StatusToDo, Priority: PriorityLow, Completed: true, CompletionDate: strPtr("2025-01-01")},
			wantErr: "disagrees with status",
		},
		{
			name:    "completion date on open task",
			task:    Task{ID: "1", Status: StatusToDo, Priority: PriorityLow, CompletionDate: strPtr("2025-01-01")},
			wantErr: "completion_date presence",
		},
		{
			name:    "unknown enums",
			task:    Task{ID: "1", Status: "Blocked", Priority: "urgent"},
			wantErr: "unknown priority",
		},
		{
			name:    "negative hours",
			task:    Task{ID: "1", Status: StatusToDo, Priority: PriorityLow, EstimatedHours: -1},
			wantErr: "negative estimated_hours",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-04-02", "2025-04-02T08:30:00Z", "2025-04-02T08:30:00.123+02:00", "2025-04-02T08:30:00"} {
		if _, ok := ParseDate(in); !ok {
			t.Fatalf("expected %q to parse", in)
		}
	}
	for _, in := range []string{"", "   ", "next tuesday"} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestSlice(t *testing.T) {
	tasks := make([]Task, 5)
	for i := range tasks {
		tasks[i].ID = string(rune('a' + i))
	}

	page := Slice(tasks, 1, 2)
	if len(page.Tasks) != 2 || page.Tasks[0].ID != "b" {
		t.Fatalf("unexpected page: %#v", page.Tasks)
	}
	if page.Pagination != (Pagination{Total: 5, Offset: 1, Limit: 2, HasMore: true}) {
		t.Fatalf("unexpected pagination: %#v", page.Pagination)
	}

	tail := Slice(tasks, 3, 10)
	if len(tail.Tasks) != 2 || tail.Pagination.HasMore {
		t.Fatalf("unexpected tail: %#v", tail)
	}

	past := Slice(tasks, 9, 2)
	if past.Tasks == nil || len(past.Tasks) != 0 || past.Pagination.Offset != 5 {
		t.Fatalf("expected empty non-nil page clamped to total, got %#v", past)
	}

	huge := Slice(tasks, 1, math.MaxInt)
	if len(huge.Tasks) != 4 || huge.Tasks[0].ID != "b" || huge.Pagination.HasMore || huge.Pagination.Limit != math.MaxInt {
		t.Fatalf("expected tail for a very large limit, got %#v", huge)
	}

	all := Slice(tasks, 0, 0)
	if len(all.Tasks) != 5 || all.Pagination.Limit != 5 {
		t.Fatalf("expected whole collection, got %#v", all.Pagination)
	}
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn("estimated_hours")
	if err != nil || c != ColumnEstimatedHours {
		t.Fatalf("unexpected column %q err %v", c, err)
	}
	if _, err := ParseColumn("createdAt"); err == nil {
		t.Fatalf("expected unknown column error")
	}
	if ColumnDueDate.Label() != "Due Date" {
		t.Fatalf("unexpected label %q", ColumnDueDate.Label())
	}
}
