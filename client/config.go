package client

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is used when TASKS_BASE_URL is unset.
const DefaultBaseURL = "http://localhost:8080"

// BaseURLFromEnv loads the given .env files, when present, and returns
// TASKS_BASE_URL. Variables already set in the environment win over the
// files.
func BaseURLFromEnv(files ...string) (string, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	if v := strings.TrimSpace(os.Getenv("TASKS_BASE_URL")); v != "" {
		return v, nil
	}
	return DefaultBaseURL, nil
}
