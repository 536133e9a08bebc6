package repositories

import (
	"fmt"
	"path/filepath"

	"reportgen/internal/config"
	"reportgen/internal/database"
	"reportgen/internal/logging"
)

// OpenSettings opens the settings medium selected by cfg.SettingsBackend. The
// returned func releases it.
func OpenSettings(cfg *config.Config) (SettingEntryRepository, func() error, error) {
	switch cfg.SettingsBackend {
	case config.BackendKeyring:
		dir := cfg.KeyringDir
		if dir == "" {
			appDir, err := database.AppDataDir()
			if err != nil {
				return nil, nil, err
			}
			dir = filepath.Join(appDir, "keyring")
		}
		ring, err := OpenKeyring(KeyringOptions{FileDir: dir, FilePassword: cfg.KeyringPassword})
		if err != nil {
			return nil, nil, err
		}
		logging.Get().Infow("settings backend opened", "backend", config.BackendKeyring)
		return NewKeyringSettingEntryRepository(ring), func() error { return nil }, nil

	case config.BackendSQLite, "":
		store, err := database.Open(database.Config{
			Path:    cfg.DBPath,
			Verbose: !cfg.IsProduction() && cfg.LogLevel == "debug",
		})
		if err != nil {
			return nil, nil, err
		}
		logging.Get().Infow("settings backend opened", "backend", config.BackendSQLite, "path", store.Path())
		return NewSettingEntryRepository(store.DB), store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown settings backend %q", cfg.SettingsBackend)
}
