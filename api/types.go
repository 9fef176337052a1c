package api

import (
	"context"

	"task-manager/domain"
)

// Storage abstracts the task source for handlers.
type Storage interface {
	FetchTasks(ctx context.Context) ([]domain.Task, error)
}

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// AnonymousUser is the user ID reported when authentication is disabled.
const AnonymousUser = "anonymous"

// OpenAccess accepts every request.
type OpenAccess struct{}

func (OpenAccess) UserIDFromAuthHeader(string) (string, error) { return AnonymousUser, nil }

type errorResponse struct {
	Error string `json:"error"`
}
