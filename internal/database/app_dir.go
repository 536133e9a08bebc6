package database

import (
	"os"
	"path/filepath"
)

// AppDataDir returns (and creates) the per-user directory for local state.
func AppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appDir := filepath.Join(configDir, "reportgen")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return appDir, nil
}
