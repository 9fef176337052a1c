package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"task-manager/domain"
)

// loadLayout reads saved table preferences. A missing file yields zero
// settings so every default applies.
func loadLayout(path string) (domain.Settings, error) {
	var settings domain.Settings
	if path == "" {
		return settings, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse layout %s: %w", path, err)
	}
	for _, c := range settings.Columns {
		if _, err := domain.ParseColumn(string(c)); err != nil {
			return settings, fmt.Errorf("parse layout %s: %w", path, err)
		}
	}
	if settings.SortBy != "" {
		if _, err := domain.ParseColumn(string(settings.SortBy)); err != nil {
			return settings, fmt.Errorf("parse layout %s: %w", path, err)
		}
	}
	switch settings.SortDirection {
	case "", domain.SortAsc, domain.SortDesc:
	default:
		return settings, fmt.Errorf("parse layout %s: unknown sort direction %q", path, settings.SortDirection)
	}
	return settings, nil
}
