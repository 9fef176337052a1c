package client

import (
	"fmt"
	"net/http"
)

// NetworkError reports a transport failure or a non-2xx response.
type NetworkError struct {
	// Status is the HTTP status, or 0 when no response arrived.
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.Status != 0:
		return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
	default:
		return "request failed"
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "decode response: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// SessionError reports a token that was accepted in memory but could not be
// persisted to the session's TokenStore.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *SessionError) Unwrap() error { return e.Err }
