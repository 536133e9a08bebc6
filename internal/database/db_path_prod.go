//go:build prod

package database

import (
	"path/filepath"

	"reportgen/internal/logging"
)

// GetDefaultDBPath places the database in the per-user config directory.
func GetDefaultDBPath() string {
	appDir, err := AppDataDir()
	if err != nil {
		logging.Get().Warnf("failed to resolve app config dir: %v; using fallback", err)
		return "reportgen.db"
	}
	return filepath.Join(appDir, "reportgen.db")
}
