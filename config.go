package main

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTasksFile = "data/tasks.json"
	defaultPort      = "8080"
	defaultCacheTTL  = 30 * time.Second
)

type config struct {
	ListenAddr        string
	Debug             bool
	JSONLogs          bool
	TasksFile         string
	TasksTable        string
	StorageConnString string
	RedisConn         string
	CacheTTL          time.Duration
	AuthMode          string
	AuthDomain        string
	AuthAudience      string
	AuthSecret        string
	JWKSCacheTTL      time.Duration
}

func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		ListenAddr:        ":" + defaultPort,
		TasksFile:         defaultTasksFile,
		TasksTable:        getenv("TASKS_TABLE"),
		StorageConnString: getenv("STORAGE_CONNECTION_STRING"),
		RedisConn:         getenv("REDIS_CONNECTION_STRING"),
		CacheTTL:          defaultCacheTTL,
		AuthMode:          strings.ToLower(strings.TrimSpace(getenv("AUTH_MODE"))),
		AuthDomain:        getenv("AUTH0_DOMAIN"),
		AuthAudience:      getenv("AUTH0_AUDIENCE"),
		AuthSecret:        getenv("AUTH_SHARED_SECRET"),
	}
	if v := getenv("DEBUG"); v != "" {
		dbg, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("invalid DEBUG: %w", err)
		}
		cfg.Debug = dbg
	}
	cfg.JSONLogs = strings.EqualFold(getenv("LOG_FORMAT"), "json")
	if v := getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			return config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.ListenAddr = ":" + v
	}
	if v := getenv("TASKS_FILE"); v != "" {
		cfg.TasksFile = v
	}
	if cfg.TasksTable != "" && cfg.StorageConnString == "" {
		return config{}, errors.New("TASKS_TABLE requires STORAGE_CONNECTION_STRING")
	}
	if v := getenv("TASKS_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return config{}, fmt.Errorf("invalid TASKS_CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}
	if v := getenv("JWKS_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return config{}, fmt.Errorf("invalid JWKS_CACHE_TTL %q", v)
		}
		cfg.JWKSCacheTTL = d
	}
	switch cfg.AuthMode {
	case "", "none":
	case "jwks":
		if cfg.AuthDomain == "" || cfg.AuthAudience == "" {
			return config{}, errors.New("AUTH_MODE=jwks requires AUTH0_DOMAIN and AUTH0_AUDIENCE")
		}
	case "hs256":
		if cfg.AuthSecret == "" {
			return config{}, errors.New("AUTH_MODE=hs256 requires AUTH_SHARED_SECRET")
		}
	default:
		return config{}, fmt.Errorf("unsupported AUTH_MODE %q", cfg.AuthMode)
	}
	return cfg, nil
}

// redisOptions accepts a redis:// URL or the "host:port,password=...,ssl=True"
// form used by Azure Cache for Redis.
func redisOptions(conn string) *redis.Options {
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "password":
			opts.Password = v
		case "ssl":
			if strings.EqualFold(v, "true") {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
		}
	}
	return opts
}
