package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// TokenKey is the field the auth token is persisted under.
const TokenKey = "auth_token"

// TokenStore persists the session token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session carries the base URL and the current auth token. It is shared by
// reference with every Client built on it and is safe for concurrent use.
type Session struct {
	BaseURL string

	mu    sync.Mutex
	token string
	store TokenStore
}

// NewSession creates a Session for baseURL. When store is non-nil the
// persisted token, if any, is loaded.
func NewSession(baseURL string, store TokenStore) (*Session, error) {
	s := &Session{BaseURL: baseURL, store: store}
	if store != nil {
		tok, err := store.Load()
		if err != nil {
			return nil, err
		}
		s.token = tok
	}
	return s, nil
}

// Token returns the current token, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken replaces the token and persists it.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.store == nil {
		return nil
	}
	return s.store.Save(token)
}

// ClearToken drops the token from memory and from the store.
func (s *Session) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

// FileTokenStore keeps the token in a small JSON document on disk.
type FileTokenStore struct {
	Path string
}

// DefaultTokenPath is the token file under the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "task-manager", "session.json"), nil
}

func (f FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var doc map[string]string
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return "", &ParseError{Err: err}
	}
	return doc[TokenKey], nil
}

func (f FileTokenStore) Save(token string) error {
	if token == "" {
		return f.Clear()
	}
	data, err := sonic.Marshal(map[string]string{TokenKey: token})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f FileTokenStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
