package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetLabellerHome returns the labeller home directory, where the
// config file, receipt database, logs and results log live by default.
// Priority order:
//  1. LABELLER_HOME environment variable (if set)
//  2. ~/.labeller
//  3. ./.labeller (fallback when the home directory is unknown)
//
// The directory is created if it doesn't exist.
func GetLabellerHome() (string, error) {
	if home := os.Getenv("LABELLER_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create labeller home directory: %w", err)
		}
		return home, nil
	}

	base, err := os.UserHomeDir()
	if err != nil {
		base, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	labellerHome := filepath.Join(base, ".labeller")
	if err := os.MkdirAll(labellerHome, 0755); err != nil {
		return "", fmt.Errorf("create labeller home directory: %w", err)
	}
	return labellerHome, nil
}

// ResolvePath joins a possibly-relative configured path onto the
// labeller home directory. Absolute paths pass through unchanged.
func ResolvePath(home, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}
