// taskview is a terminal client for the task API. It fetches the task list
// once and then searches, filters, sorts and pages it locally.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"task-manager/client"
	"task-manager/tasklist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL    string
		layoutPath string
		pageSize   int
		logOutput  string
		timeout    time.Duration
	)

	flagSet := pflag.NewFlagSet("taskview", pflag.ContinueOnError)
	flagSet.StringVar(&baseURL, "base-url", "", "task API base URL (default: $TASKS_BASE_URL or "+client.DefaultBaseURL+")")
	flagSet.StringVar(&layoutPath, "layout", "taskview.yaml", "YAML file with saved table preferences")
	flagSet.IntVar(&pageSize, "page-size", 0, "rows revealed per page (overrides the layout file)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.DurationVar(&timeout, "timeout", 15*time.Second, "HTTP request timeout")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	logger, closeLog, err := newLogger(logOutput)
	if err != nil {
		return err
	}
	defer closeLog()

	if baseURL == "" {
		fromEnv, err := client.BaseURLFromEnv(".env")
		if err != nil {
			return err
		}
		baseURL = fromEnv
	}

	settings, err := loadLayout(layoutPath)
	if err != nil {
		return err
	}
	if pageSize > 0 {
		settings.PageSize = pageSize
	}

	tokenPath, err := client.DefaultTokenPath()
	if err != nil {
		return err
	}
	session, err := client.NewSession(baseURL, client.FileTokenStore{Path: tokenPath})
	if err != nil {
		return err
	}
	api := client.New(session, &http.Client{Timeout: timeout})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("base_url", baseURL).Info("starting taskview")
	store := tasklist.NewStore(loggingFetcher{api: api, logger: logger})
	program := tea.NewProgram(newModel(ctx, store, settings), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// newLogger keeps log output off the terminal the TUI draws on.
func newLogger(path string) (*log.Logger, func(), error) {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	if path == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `taskview: browse tasks from the task API

Usage:
  taskview [flags]

Flags:
%s`, flagSet.FlagUsages())
}
