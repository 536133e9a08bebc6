package services

import (
	"context"
	"encoding/json"
	"fmt"

	"reportgen/internal/logging"
	"reportgen/internal/models"
	"reportgen/internal/repositories"
)

// SettingsKey is the single entry the configuration is stored under.
const SettingsKey = "ai-tools-config"

type SettingsService interface {
	Load(ctx context.Context) (*models.Config, bool)
	Save(ctx context.Context, cfg models.Config) error
}

type settingsService struct {
	repo repositories.SettingEntryRepository
}

func NewSettingsService(repo repositories.SettingEntryRepository) SettingsService {
	return &settingsService{repo: repo}
}

// Load never fails: a missing entry, a read failure and an unparseable value all
// read as absent.
func (s *settingsService) Load(ctx context.Context) (*models.Config, bool) {
	entry, err := s.repo.Get(ctx, SettingsKey)
	if err != nil {
		logging.Get().Warnw("settings unreadable", "key", SettingsKey, "error", err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}

	var cfg models.Config
	if err := json.Unmarshal([]byte(entry.Value), &cfg); err != nil {
		logging.Get().Warnw("settings corrupted, ignoring", "key", SettingsKey, "error", err)
		return nil, false
	}
	return &cfg, true
}

func (s *settingsService) Save(ctx context.Context, cfg models.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSettingsSave, err)
	}
	if err := s.repo.Put(ctx, &models.SettingEntry{Key: SettingsKey, Value: string(data)}); err != nil {
		logging.Get().Errorw("settings save failed", "key", SettingsKey, "error", err)
		return fmt.Errorf("%w: %w", ErrSettingsSave, err)
	}
	return nil
}
