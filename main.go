package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"task-manager/api"
	"task-manager/storage"
)

func main() {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := log.New()
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.JSONLogs {
		logger.SetFormatter(&log.JSONFormatter{})
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	store, err := newBackend(cfg, logger)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}

	auth, err := newAuthenticator(cfg)
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.Recover())
	e.Use(api.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	e.Use(echoprometheus.NewMiddleware("taskmanager"))
	e.GET("/metrics", echoprometheus.NewHandler())

	api.Register(e, store, auth, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("server is running on %s", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

func newBackend(cfg config, logger *log.Logger) (storage.Backend, error) {
	var backend storage.Backend
	if cfg.TasksTable != "" {
		ts, err := storage.NewTableStore(cfg.StorageConnString, cfg.TasksTable)
		if err != nil {
			return nil, err
		}
		backend = ts
		logger.WithField("table", cfg.TasksTable).Info("serving tasks from table storage")
	} else {
		backend = storage.NewFileStore(cfg.TasksFile, logger)
		logger.WithField("file", cfg.TasksFile).Info("serving tasks from file")
	}

	if cfg.RedisConn == "" {
		return backend, nil
	}
	rc := redis.NewClient(redisOptions(cfg.RedisConn))
	logger.WithField("ttl", cfg.CacheTTL).Info("tasks cache enabled")
	return storage.NewCache(backend, rc, cfg.CacheTTL), nil
}

func newAuthenticator(cfg config) (api.Authenticator, error) {
	ac := api.AuthConfig{
		Mode:         cfg.AuthMode,
		Audience:     cfg.AuthAudience,
		SharedSecret: cfg.AuthSecret,
		KeyCacheTTL:  cfg.JWKSCacheTTL,
	}
	if cfg.AuthMode == api.AuthModeJWKS {
		jwks, err := keyfunc.Get(fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.AuthDomain), keyfunc.Options{})
		if err != nil {
			return nil, fmt.Errorf("jwks: %w", err)
		}
		ac.JWKS = jwks
		ac.Issuer = "https://" + cfg.AuthDomain + "/"
	}
	return api.NewAuthenticator(ac)
}
