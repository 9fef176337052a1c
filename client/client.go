// Package client fetches tasks from the task service.
package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"task-manager/domain"
)

const maxErrorBody = 64 << 10

var errNotArray = errors.New("expected a JSON array of tasks")

// Client issues requests against the session's base URL.
type Client struct {
	session *Session
	http    *http.Client
}

// New creates a Client. A nil httpClient uses http.DefaultClient.
func New(session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{session: session, http: httpClient}
}

// FetchTasks returns every task served by GET /tasks.
func (c *Client) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.getJSON(ctx, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		return nil, &ParseError{Err: errNotArray}
	}
	return tasks, nil
}

// FetchPage returns one window of the collection.
func (c *Client) FetchPage(ctx context.Context, offset, limit int) (domain.TaskPage, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	var page domain.TaskPage
	if err := c.getJSON(ctx, "/tasks", q, &page); err != nil {
		return domain.TaskPage{}, err
	}
	if page.Tasks == nil {
		page.Tasks = []domain.Task{}
	}
	return page, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := strings.TrimRight(c.session.BaseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", authorizationValue(tok))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var sessionErr error
	if h := resp.Header.Get("Authorization"); h != "" {
		if err := c.session.SetToken(h); err != nil {
			sessionErr = &SessionError{Op: "save token", Err: err}
		}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.ClearToken(); err != nil {
			sessionErr = &SessionError{Op: "clear token", Err: err}
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Status: resp.StatusCode, Message: errorMessage(resp.Body), Err: sessionErr}
	}

	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Err: err}
	}
	return sessionErr
}

// authorizationValue sends bare tokens as bearer tokens and anything that
// already names a scheme verbatim.
func authorizationValue(token string) string {
	if strings.Contains(token, " ") {
		return token
	}
	return "Bearer " + token
}

// errorMessage extracts {"error":...} or {"message":...} from an error body.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
