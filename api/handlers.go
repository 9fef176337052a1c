package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"task-manager/dashboard"
	"task-manager/domain"
	"task-manager/tasklist"
)

const fetchFailedMessage = "Failed to retrieve tasks"

var (
	errInvalidOffset = errors.New("offset must be a non-negative integer")
	errInvalidLimit  = errors.New("limit must be a positive integer")
)

// now is replaced in tests.
var now = time.Now

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, auth Authenticator, logger *log.Logger) {
	e.GET("/tasks", getTasks(store, auth, logger))
	e.GET("/tasks/stats", getStats(store, auth, logger))
	e.GET("/healthz", healthz(store, logger))
}

type healthResponse struct {
	Status string `json:"status"`
	Tasks  int    `json:"tasks"`
}

func healthz(store Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := store.FetchTasks(c.Request().Context())
		if err != nil {
			logger.WithError(err).Warn("health check failed")
			return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		}
		return c.JSON(http.StatusOK, healthResponse{Status: "ok", Tasks: len(tasks)})
	}
}

// pageWindow is the optional offset/limit pair of a tasks request.
type pageWindow struct {
	requested bool
	offset    int
	limit     int
}

func parsePageWindow(q url.Values) (pageWindow, error) {
	var w pageWindow
	if raw, ok := q["offset"]; ok {
		w.requested = true
		n, err := strconv.Atoi(strings.TrimSpace(first(raw)))
		if err != nil || n < 0 {
			return pageWindow{}, errInvalidOffset
		}
		w.offset = n
	}
	if raw, ok := q["limit"]; ok {
		w.requested = true
		n, err := strconv.Atoi(strings.TrimSpace(first(raw)))
		if err != nil || n <= 0 {
			return pageWindow{}, errInvalidLimit
		}
		w.limit = n
	}
	return w, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func getTasks(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := newTaskRequestMetrics(c.Request().Context(), logger, "/tasks")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		_, authErr := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: authErr.Error()})
		}

		window, parseErr := parsePageWindow(c.QueryParams())
		if parseErr != nil {
			metrics.SetErrorStage("invalid_pagination")
			return c.JSON(http.StatusBadRequest, errorResponse{Error: parseErr.Error()})
		}
		metrics.SetPaginated(window.requested)

		fetchStart := time.Now()
		tasks, fetchErr := store.FetchTasks(ctx)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			metrics.RecordError(fetchErr)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: fetchFailedMessage})
		}
		if tasks == nil {
			tasks = []domain.Task{}
		}

		encodeStart := time.Now()
		if window.requested {
			page := domain.Slice(tasks, window.offset, window.limit)
			metrics.SetTasks(len(page.Tasks), len(tasks), page.Pagination.HasMore)
			err = c.JSON(http.StatusOK, page)
		} else {
			metrics.SetTasks(len(tasks), len(tasks), false)
			err = c.JSON(http.StatusOK, tasks)
		}
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

// filterValues collects repeated and comma-separated values of key.
func filterValues(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func getStats(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		tasks, err := store.FetchTasks(ctx)
		if err != nil {
			logger.WithError(err).WithField("request_id", RequestID(c)).Error("stats: fetch tasks")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: fetchFailedMessage})
		}
		q := c.QueryParams()
		filtered := tasklist.Filter(tasks,
			filterValues(q, "assignee"),
			filterValues(q, "status"),
			filterValues(q, "priority"),
		)
		return c.JSON(http.StatusOK, dashboard.Summarize(filtered, now()))
	}
}
