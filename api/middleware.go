package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const requestIDKey = "request_id"

// RequestLogger tags every request with an ID, taken from X-Request-ID when
// the caller supplies one, and logs its outcome at debug level.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			start := time.Now()
			if err := next(c); err != nil {
				// Let echo write the error so the logged status is final.
				c.Error(err)
			}
			logger.WithFields(log.Fields{
				"request_id": id,
				"method":     req.Method,
				"route":      c.Path(),
				"uri":        req.RequestURI,
				"status":     c.Response().Status,
				"latency_ms": durationToMillis(time.Since(start)),
			}).Debug("http.request")
			return nil
		}
	}
}

// RequestID returns the ID assigned by RequestLogger, or "".
func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
